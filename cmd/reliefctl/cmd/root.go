// Package cmd contains the reliefctl commands.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "reliefctl",
	Short: "Operator CLI for the disaster relief service",
	Long: `reliefctl drives a running disaster relief server over HTTP.

Examples:
  # Run one ingestion pass against the live feed
  reliefctl ingest

  # Simulate an Extreme alert for a postal code
  reliefctl simulate --zip 70401

  # List users that would be notified for a postal code
  reliefctl users --zip 70401`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "relief server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")
}
