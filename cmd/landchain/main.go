package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"landchain/internal/platform/config"
)

const programName = "landchain"

var globalFlags = struct {
	logLevel  string
	logFormat string
}{}

// main loads configuration once and hands it to the subcommands. Wiring lives
// in serve.go; business logic lives in the internal service packages.
func main() {
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Wallet session, account linkage and verifier console for the land registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.FromEnv()
			if err != nil {
				return err
			}
			if globalFlags.logLevel != "" {
				loaded.Log.Level = globalFlags.logLevel
			}
			if globalFlags.logFormat != "" {
				loaded.Log.Format = globalFlags.logFormat
			}
			cfg = loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "override LANDCHAIN_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", "", "override LANDCHAIN_LOG_FORMAT (text or json)")

	rootCmd.AddCommand(serveCommand(&cfg))
	rootCmd.AddCommand(statusCommand(&cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
