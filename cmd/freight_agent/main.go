// Package main provides the entry point for the freight intake agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "freight_agent",
	Short: "Chat-driven freight intake agent",
	Long:  "freight_agent turns free-text shipment requests into trips and parcels on the freight service, resolving city and material names and walking the operator through consigner/consignee selection.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
