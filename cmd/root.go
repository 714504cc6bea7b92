package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trustlens",
	Short: "Product trust analysis pipeline",
	Long:  "Scrapes product detail pages, extracts marketing image text via a vision model, analyzes reviews by sentiment group, and scores how well the marketing claims hold up.",
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
