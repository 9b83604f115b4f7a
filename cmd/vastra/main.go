package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and jobs so their init() funcs run and register
	// themselves before any command executes.
	_ "github.com/shashiranjanraj/vastra/app/jobs"
	_ "github.com/shashiranjanraj/vastra/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vastra",
	Short: "Vastra order management backend CLI",
	Long:  "Vastra is the storefront order backend. Use this CLI to serve the API and manage the database and workers.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}
