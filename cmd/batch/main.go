package main

import (
	"os"

	"github.com/spf13/cobra"

	"place_insights/internal/shared"
)

var cfg shared.Config

var rootCmd = &cobra.Command{
	Use:   "batch [urls...]",
	Short: "Analyze the reviews of many Google Maps places",
	Long: "Resolves each Google Maps URL to a place, fetches its reviews and prints one JSON line per URL, " +
		"in input order. Exits non-zero when any URL failed.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := shared.Load()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: runBatch,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
