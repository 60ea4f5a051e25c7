package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cardpress",
	Short: "Cardpress - bank-card delivery document service",
	Long: `Cardpress turns spreadsheets of bank-card delivery records into
printable PDF documents with Arabic and Kurdish text support.

It runs as a single HTTP server, providing:
  - Spreadsheet upload and per-record PDF generation
  - Per-session batch progress tracking
  - Automatic deletion of all files after the retention limit
  - Session-scoped access to uploads and generated documents`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Environment files are optional; a missing default .env is fine,
		// but an explicitly named file must exist.
		if err := godotenv.Load(envFile); err != nil {
			if envFile != ".env" || !os.IsNotExist(err) {
				return fmt.Errorf("failed to load env file %q: %w", envFile, err)
			}
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
