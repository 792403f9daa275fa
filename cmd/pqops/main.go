package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/pqops/cmd/pqops/commands"
	"github.com/systmms/pqops/internal/config"
	"github.com/systmms/pqops/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "pqops",
		Short: "Post-quantum secret operations - keygen, sign, and key exchange",
		Long: `pqops generates, signs with, and exchanges post-quantum key material
(Dilithium5 signatures, Kyber1024 KEM) inside hardened, self-wiping memory.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Logger = logger
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "pqops.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Add commands
	rootCmd.AddCommand(
		commands.NewKeygenCommand(cfg),
		commands.NewSignCommand(cfg),
		commands.NewVerifyCommand(cfg),
		commands.NewKEMCommand(cfg),
		commands.NewRandomCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
