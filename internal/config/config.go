// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/pkg/bitint"
)

// MaxParticleCount bounds the population so a bad config can never ask
// for a multi-gigabyte allocation.
const MaxParticleCount = 500000

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	Debug      bool             `yaml:"debug"`     // Enable debug mode (verbose logging).
	LogLevel   string           `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	Audio      AudioConfig      `yaml:"audio"`     // Audio acquisition and FFT settings.
	Analysis   AnalysisConfig   `yaml:"analysis"`  // Band / transient / smoothing settings.
	Simulation SimulationConfig `yaml:"simulation"`
	Transport  TransportConfig  `yaml:"transport"` // Render-frame delivery settings.
}

// AudioConfig holds settings for audio acquisition and spectrum analysis.
type AudioConfig struct {
	InputDevice   int     `yaml:"input_device"`   // PortAudio device index for microphone input (-1 for default).
	SampleRate    float64 `yaml:"sample_rate"`    // Sample rate in Hz (e.g., 44100, 48000).
	FFTSize       int     `yaml:"fft_size"`       // FFT window size, must be a power of 2.
	FFTWindow     string  `yaml:"fft_window"`     // Window function name (e.g., "Hann", "Hamming").
	WavFile       string  `yaml:"wav_file"`       // Path to a WAV file to play instead of the microphone.
	GateThreshold float64 `yaml:"gate_threshold"` // Peak amplitude below which a capture buffer skips FFT work [0,1].
}

// AnalysisConfig holds the control-signal derivation settings.
type AnalysisConfig struct {
	LerpFactor          float64 `yaml:"lerp_factor"`           // Smoothing factor for level/bass/mid/treble [0,1].
	TransientLerpFactor float64 `yaml:"transient_lerp_factor"` // Faster smoothing factor for the transient channel [0,1].
	TransientThreshold  float64 `yaml:"transient_threshold"`   // Minimum level rise per tick that counts as an onset.
	TransientGain       float64 `yaml:"transient_gain"`        // Multiplier applied to the rise when an onset triggers.
	TransientDecay      float64 `yaml:"transient_decay"`       // Per-tick decay of the transient pulse (0,1).
	NoiseFloor          float64 `yaml:"noise_floor"`           // Overall level below which onsets are ignored.
}

// SimulationConfig holds the particle field settings.
type SimulationConfig struct {
	ParticleCount    int     `yaml:"particle_count"`    // Fixed population size, 1..MaxParticleCount.
	FlowSpeed        float64 `yaml:"flow_speed"`        // Global speed multiplier.
	CurlInfluence    float64 `yaml:"curl_influence"`    // How strongly the curl field steers velocity.
	NoiseScale       float64 `yaml:"noise_scale"`       // Spatial frequency of the noise field.
	TimeStep         float64 `yaml:"time_step"`         // Temporal evolution rate of the noise field.
	Damping          float64 `yaml:"damping"`           // Velocity damping per tick (0,1].
	LifeDecay        float64 `yaml:"life_decay"`        // Base life lost per tick.
	ParticleSize     float64 `yaml:"particle_size"`     // Base render size per particle.
	TrailPersistence float64 `yaml:"trail_persistence"` // Canvas fade hint forwarded to the renderer [0,1].
	Palette          string  `yaml:"palette"`           // Color scheme: aurora, fire, ocean, rainbow.
	Seed             int64   `yaml:"seed"`              // Noise field seed; 0 picks a fixed default.
}

// TransportConfig holds settings for publishing render frames.
type TransportConfig struct {
	ListenAddress    string `yaml:"listen_address"`     // WebSocket listen address (e.g., ":8080"); empty disables.
	UDPEnabled       bool   `yaml:"udp_enabled"`        // Enable sending frames over UDP.
	UDPTargetAddress string `yaml:"udp_target_address"` // Target address for UDP frames (e.g., "127.0.0.1:9090").
	TickRate         int    `yaml:"tick_rate"`          // Analysis/simulation ticks per second.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:   -1, // -1 for default device.
			SampleRate:    44100,
			FFTSize:       2048,
			FFTWindow:     "Hann",
			GateThreshold: 0.001,
		},
		Analysis: AnalysisConfig{
			LerpFactor:          0.15,
			TransientLerpFactor: 0.3,
			TransientThreshold:  0.3,
			TransientGain:       2.0,
			TransientDecay:      0.92,
			NoiseFloor:          0.1,
		},
		Simulation: SimulationConfig{
			ParticleCount:    20000,
			FlowSpeed:        1.0,
			CurlInfluence:    0.08,
			NoiseScale:       1.4,
			TimeStep:         0.05,
			Damping:          0.92,
			LifeDecay:        0.004,
			ParticleSize:     1.6,
			TrailPersistence: 0.92,
			Palette:          "aurora",
			Seed:             0,
		},
		Transport: TransportConfig{
			ListenAddress:    ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			TickRate:         60,
		},
	}
}

// LoadConfig loads configuration from a YAML file specified by path. If path is
// empty, it searches default locations ("config.yaml"). If no file is found, it
// uses built-in defaults. After loading, it applies environment variable
// overrides and validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidates := []string{"config.yaml"}
		found := false
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				found = true
				break
			}
		}
		if !found {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that cannot be run and clamps soft
// knobs into their documented ranges. Rejection happens here, at the
// boundary, so a bad value never reaches an allocation or a divide.
func (c *Config) Validate() error {
	if !bitint.IsPowerOfTwo(c.Audio.FFTSize) {
		return fmt.Errorf("audio.fft_size must be a power of 2, got %d", c.Audio.FFTSize)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %f", c.Audio.SampleRate)
	}
	if c.Simulation.ParticleCount <= 0 {
		return fmt.Errorf("simulation.particle_count must be positive, got %d", c.Simulation.ParticleCount)
	}
	if c.Simulation.ParticleCount > MaxParticleCount {
		c.Simulation.ParticleCount = MaxParticleCount
	}
	if c.Transport.TickRate <= 0 {
		return fmt.Errorf("transport.tick_rate must be positive, got %d", c.Transport.TickRate)
	}

	c.Analysis.LerpFactor = clampUnit(c.Analysis.LerpFactor)
	c.Analysis.TransientLerpFactor = clampUnit(c.Analysis.TransientLerpFactor)
	c.Analysis.TransientDecay = clampUnit(c.Analysis.TransientDecay)
	c.Analysis.NoiseFloor = clampUnit(c.Analysis.NoiseFloor)
	c.Audio.GateThreshold = clampUnit(c.Audio.GateThreshold)
	c.Simulation.TrailPersistence = clampUnit(c.Simulation.TrailPersistence)

	if c.Analysis.TransientThreshold < 0 {
		c.Analysis.TransientThreshold = 0
	}
	if c.Analysis.TransientGain < 0 {
		c.Analysis.TransientGain = 0
	}
	if c.Simulation.FlowSpeed < 0 {
		c.Simulation.FlowSpeed = 0
	}
	if c.Simulation.CurlInfluence < 0 {
		c.Simulation.CurlInfluence = 0
	}
	if c.Simulation.Damping <= 0 || c.Simulation.Damping > 1 {
		c.Simulation.Damping = 0.92
	}
	if c.Simulation.LifeDecay <= 0 {
		c.Simulation.LifeDecay = 0.004
	}
	if c.Simulation.ParticleSize <= 0 {
		c.Simulation.ParticleSize = 1.0
	}

	return nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Config) applyEnvOverrides() {
	// PFA_{...} overrides, applied after file load so deployments can
	// tweak a shared config without editing it.

	if val, ok := os.LookupEnv("PFA_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
		}
	}
	if val, ok := os.LookupEnv("PFA_LISTEN_ADDRESS"); ok {
		c.Transport.ListenAddress = val
	}
	if val, ok := os.LookupEnv("PFA_UDP_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("PFA_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
	}
	if val, ok := os.LookupEnv("PFA_PARTICLE_COUNT"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Simulation.ParticleCount = iVal
		}
	}
	if val, ok := os.LookupEnv("PFA_PALETTE"); ok {
		c.Simulation.Palette = val
	}
}
