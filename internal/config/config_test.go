// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
simulation:
  particle_count: 1234
  palette: fire
audio:
  fft_size: 1024
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.ParticleCount != 1234 {
		t.Errorf("particle_count = %d, want 1234", cfg.Simulation.ParticleCount)
	}
	if cfg.Simulation.Palette != "fire" {
		t.Errorf("palette = %q, want fire", cfg.Simulation.Palette)
	}
	if cfg.Audio.FFTSize != 1024 {
		t.Errorf("fft_size = %d, want 1024", cfg.Audio.FFTSize)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		desc    string
		mutate  func(*Config)
		wantErr string
	}{
		{"non power of two fft", func(c *Config) { c.Audio.FFTSize = 1000 }, "power of 2"},
		{"negative particle count", func(c *Config) { c.Simulation.ParticleCount = -5 }, "particle_count"},
		{"zero particle count", func(c *Config) { c.Simulation.ParticleCount = 0 }, "particle_count"},
		{"zero tick rate", func(c *Config) { c.Transport.TickRate = 0 }, "tick_rate"},
		{"negative sample rate", func(c *Config) { c.Audio.SampleRate = -44100 }, "sample_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ClampsSoftKnobs(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Simulation.ParticleCount = MaxParticleCount * 2
	cfg.Analysis.LerpFactor = 3.5
	cfg.Analysis.TransientDecay = -1
	cfg.Simulation.FlowSpeed = -2
	cfg.Simulation.Damping = 9

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.ParticleCount != MaxParticleCount {
		t.Errorf("particle_count = %d, want clamp to %d", cfg.Simulation.ParticleCount, MaxParticleCount)
	}
	if cfg.Analysis.LerpFactor != 1 {
		t.Errorf("lerp_factor = %f, want 1", cfg.Analysis.LerpFactor)
	}
	if cfg.Analysis.TransientDecay != 0 {
		t.Errorf("transient_decay = %f, want 0", cfg.Analysis.TransientDecay)
	}
	if cfg.Simulation.FlowSpeed != 0 {
		t.Errorf("flow_speed = %f, want 0", cfg.Simulation.FlowSpeed)
	}
	if cfg.Simulation.Damping != 0.92 {
		t.Errorf("damping = %f, want default 0.92", cfg.Simulation.Damping)
	}
}
