package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass",
	Long: `Fetch the active alert feed once and dispatch every alert not yet processed.

Example:
  reliefctl ingest`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.Context(), cmd.OutOrStdout(), http.MethodPost, "/api/run-ingestion", nil)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
