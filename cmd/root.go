package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "relief-cli",
	Short: "Disaster relief-centre locator and dataset ingestion",
	Long:  "Normalizes arbitrary relief-centre spreadsheets into a canonical dataset and finds centres near a user coordinate, filtered by disaster type.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
