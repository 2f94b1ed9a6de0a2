// SPDX-License-Identifier: MIT
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/config"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/pkg/build"
)

// Options is the result of CLI parsing: either a one-off Command to execute,
// or a fully resolved Config for running the engine.
type Options struct {
	Config  *config.Config
	Command string // One-off command ("devices", "palettes"); empty runs the engine.
}

// ParseArgs parses command line arguments, loads the configuration file, and
// applies flag overrides on top of it.
func ParseArgs() (*Options, error) {
	buildInfo := build.GetBuildFlags()
	opts := &Options{}

	var (
		configPath string
		deviceID   int
		wavFile    string
		pal        string
		particles  int
		listenAddr string
		udpEnabled bool
		udpAddr    string
		fftSize    int
		tickRate   int
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags beat the config file, but only when actually given.
			flags := cmd.Flags()
			if flags.Changed("device") {
				cfg.Audio.InputDevice = deviceID
			}
			if flags.Changed("wav") {
				cfg.Audio.WavFile = wavFile
			}
			if flags.Changed("fft-size") {
				cfg.Audio.FFTSize = fftSize
			}
			if flags.Changed("palette") {
				cfg.Simulation.Palette = strings.ToLower(pal)
			}
			if flags.Changed("particles") {
				cfg.Simulation.ParticleCount = particles
			}
			if flags.Changed("listen") {
				cfg.Transport.ListenAddress = listenAddr
			}
			if flags.Changed("udp") {
				cfg.Transport.UDPEnabled = udpEnabled
			}
			if flags.Changed("udp-addr") {
				cfg.Transport.UDPTargetAddress = udpAddr
				cfg.Transport.UDPEnabled = true
			}
			if flags.Changed("tick-rate") {
				cfg.Transport.TickRate = tickRate
			}
			if verbose {
				cfg.Debug = true
				cfg.LogLevel = "debug"
			}

			// Overrides can break constraints the file load already checked.
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts.Config = cfg
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio input devices",
		Run: func(cmd *cobra.Command, args []string) {
			opts.Command = "devices"
		},
	}
	rootCmd.AddCommand(devicesCmd)

	palettesCmd := &cobra.Command{
		Use:   "palettes",
		Short: "List available color palettes",
		Run: func(cmd *cobra.Command, args []string) {
			opts.Command = "palettes"
		},
	}
	rootCmd.AddCommand(palettesCmd)

	// Configuration file
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to a YAML config file (default: ./config.yaml if present)")

	// Audio source
	rootCmd.Flags().IntVarP(&deviceID, "device", "d", -1,
		"Input device ID. Use the 'devices' command to see available devices.")
	rootCmd.Flags().StringVarP(&wavFile, "wav", "w", "",
		"Play a WAV file instead of capturing from the microphone")
	rootCmd.Flags().IntVar(&fftSize, "fft-size", 2048,
		"FFT window size (must be a power of 2)")

	// Simulation
	rootCmd.Flags().StringVarP(&pal, "palette", "p", "aurora",
		"Color palette: aurora, fire, ocean, rainbow")
	rootCmd.Flags().IntVarP(&particles, "particles", "n", 20000,
		"Number of particles in the simulation")

	// Frame delivery
	rootCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8080",
		"WebSocket listen address for render frames (empty disables)")
	rootCmd.Flags().BoolVar(&udpEnabled, "udp", false,
		"Also send render frames over UDP")
	rootCmd.Flags().StringVar(&udpAddr, "udp-addr", "127.0.0.1:9090",
		"Target address for UDP render frames (implies --udp)")
	rootCmd.Flags().IntVar(&tickRate, "tick-rate", 60,
		"Analysis and simulation ticks per second")

	// Debug
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return opts, nil
}
