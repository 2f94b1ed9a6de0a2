// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/cmd"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/config"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/engine"
	applog "github.com/TGALLOWAY1/ParticleFlowAnimation/internal/log"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/palette"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/source"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/transport"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/transport/udp"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/pkg/build"
)

// main is the entry point for the particle flow engine.
// The program flow is divided into three phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and load configuration
//   - Execute one-off commands if requested
//   - Open the audio source and frame transports
//
// 2. Concurrent Phase (Hot Path):
//   - Start the engine tick loop (analysis + simulation + publish)
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Stop the tick loop and release audio resources
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	build.Initialize()

	opts, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}

	// One-off commands that don't run the engine.
	if opts.Command != "" {
		if err := executeCommand(opts.Command); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	// Help or version output already handled by cobra.
	if opts.Config == nil {
		return
	}
	cfg := opts.Config

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if cfg.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	src, cleanup, err := openSource(cfg)
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	transports := openTransports(cfg)

	eng, err := engine.NewEngine(cfg, src, transports)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	if err := eng.Start(); err != nil {
		applog.Fatalf("%v", err)
	}

	applog.Infof("%s %s running. Ctrl+C to stop.", build.GetBuildFlags().Name, build.GetBuildFlags().Version)

	<-done

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if err := eng.Close(); err != nil {
		applog.Errorf("Error closing engine: %v", err)
	}
}

// openSource builds the spectrum source the config asks for: a WAV file when
// one is given, otherwise live microphone capture. The returned cleanup (if
// any) must run after the engine closes the source.
func openSource(cfg *config.Config) (source.SpectrumSource, func(), error) {
	window, err := analysis.ParseWindowFunc(cfg.Audio.FFTWindow)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Audio.WavFile != "" {
		src, err := source.NewWavSource(cfg.Audio.WavFile, cfg.Audio.FFTSize, window, cfg.Transport.TickRate)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	}

	if err := source.Initialize(); err != nil {
		applog.Warnf("No audio subsystem available, running silent: %v", err)
		return source.NewSilent(cfg.Audio.FFTSize, cfg.Audio.SampleRate), nil, nil
	}
	src, err := source.NewMicSource(cfg.Audio.InputDevice, cfg.Audio.SampleRate,
		cfg.Audio.FFTSize, window, cfg.Audio.GateThreshold)
	if err != nil {
		source.Terminate()
		applog.Warnf("No usable input device, running silent: %v", err)
		return source.NewSilent(cfg.Audio.FFTSize, cfg.Audio.SampleRate), nil, nil
	}
	return src, func() { source.Terminate() }, nil
}

// openTransports builds the configured frame transports. With nothing
// configured the engine falls back to its logging transport.
func openTransports(cfg *config.Config) []transport.Transport {
	var transports []transport.Transport

	if cfg.Transport.ListenAddress != "" {
		transports = append(transports, transport.NewWebSocketTransport(cfg.Transport.ListenAddress))
	}
	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			applog.Errorf("UDP transport disabled: %v", err)
		} else {
			transports = append(transports, sender)
		}
	}
	return transports
}

// executeCommand handles one-off commands that don't require the engine.
func executeCommand(command string) error {
	switch command {
	case "devices":
		if err := source.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize audio subsystem: %w", err)
		}
		defer source.Terminate()

		devices, err := source.ListInputDevices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No audio input devices found.")
			return nil
		}
		for _, d := range devices {
			fmt.Println(d)
		}
	case "palettes":
		for _, name := range palette.Names() {
			fmt.Println(name)
		}
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
