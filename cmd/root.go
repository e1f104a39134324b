package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "siteselect",
	Short: "Restaurant location scoring and expansion planning",
	Long:  "Scores candidate restaurant locations against trained spatial models, audits the existing branch portfolio, and assembles expansion reports for Jakarta Selatan.",
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
