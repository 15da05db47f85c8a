package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velosafe/safety-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "safety-cli",
	Short: "Cycling route safety analyzer",
	Long:  "Analyzes a cycling route against OpenStreetMap road data, scores nearby roads for cyclist risk, and exports the unsafe segments for visualization.",
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
