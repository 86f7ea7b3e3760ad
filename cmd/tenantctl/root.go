package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tenantctl",
	Short: "Tenant configuration server and administration tool",
	Long: `Run and administer the tenant configuration service: the HTTP API,
database migrations, reference data seeding and configuration.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
