package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <product-url>",
	Short: "Scrape one product page and persist it without analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("scrape"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := newEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Navigator.Scrape(ctx, args[0])
		if err != nil {
			return err
		}
		id, err := env.Store.UpsertProductByURL(ctx, &res.Product)
		if err != nil {
			return err
		}
		if err := env.Store.ReplaceImages(ctx, id, res.Images); err != nil {
			return err
		}
		if err := env.Store.ReplaceReviews(ctx, id, res.Reviews); err != nil {
			return err
		}

		zap.L().Info("scrape persisted", zap.String("product_id", id))
		fmt.Fprintf(cmd.OutOrStdout(), "Product: %s (%s)\n", res.Product.Name, id)
		fmt.Fprintf(cmd.OutOrStdout(), "Images: %d, Reviews: %d, Bot gate: %s\n",
			len(res.Images), len(res.Reviews), res.BotGate)
		for _, f := range res.Fields {
			if f.Failure != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Field %s degraded: %s\n", f.Name, f.Failure)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
