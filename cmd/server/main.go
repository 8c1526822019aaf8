package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "condo",
	Short: "Condominium debt reconciliation backend",
	Long: `condo serves the condominium API: owners report bank transfers, admins
approve or reject them and approved funds settle the oldest debts first.
Running it without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
