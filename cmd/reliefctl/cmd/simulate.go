package cmd

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	simZip      string
	simSeverity string
	simEvent    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Dispatch a synthetic alert to one postal code",
	Long: `Dispatch a synthetic alert to every notifiable user in a postal code.
Simulations skip processed-alert dedup but still honour the per-user window.

Examples:
  reliefctl simulate --zip 70401
  reliefctl simulate --zip 70112 --severity Minor --event "Dense Fog Advisory"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("postalCode", simZip)
		q.Set("severity", simSeverity)
		q.Set("eventLabel", simEvent)
		return call(cmd.Context(), cmd.OutOrStdout(), http.MethodPost, "/api/simulate", q)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simZip, "zip", "", "postal code to alert (required)")
	simulateCmd.Flags().StringVar(&simSeverity, "severity", "Extreme", "alert severity")
	simulateCmd.Flags().StringVar(&simEvent, "event", "Simulated Disaster", "event label")
	simulateCmd.MarkFlagRequired("zip")

	rootCmd.AddCommand(simulateCmd)
}
