package cmd

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var usersZip string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List notifiable users for a postal code",
	Long: `List ACTIVE users in a postal code, i.e. the users an alert for that
code would reach.

Example:
  reliefctl users --zip 70401`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("postalCode", usersZip)
		return call(cmd.Context(), cmd.OutOrStdout(), http.MethodGet, "/api/notifiable-users", q)
	},
}

func init() {
	usersCmd.Flags().StringVar(&usersZip, "zip", "", "postal code (required)")
	usersCmd.MarkFlagRequired("zip")

	rootCmd.AddCommand(usersCmd)
}
