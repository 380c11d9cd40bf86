package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Secure Personal Notes CLI",
	Long: `Command line interface for the Secure Personal Notes API.

The API base URL is read from NOTES_API_URL (default http://localhost:8080).
After "notes login" the access token is kept in ~/.notes_token.`,
	SilenceUsage: true,
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
