// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-rbac-admin",
	Short: "go-rbac-admin is a role-based access control service",
	Long: `go-rbac-admin is a role-based access control service that manages
users, roles, permissions and typed system configuration through a REST API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
