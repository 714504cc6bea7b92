package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/trustlens/internal/pipeline"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List scraped products with their analysis status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("products"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		products, err := st.ListProducts(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(products) == 0 {
			fmt.Fprintln(out, "No products scraped yet.")
			return nil
		}

		for _, p := range products {
			stats, statsErr := pipeline.Stats(ctx, st, p.ID)
			if statsErr != nil {
				fmt.Fprintf(out, "%s  %s  (stats unavailable: %v)\n", p.ID, p.Name, statsErr)
				continue
			}
			score := "-"
			if stats.FinalScore != nil {
				score = fmt.Sprintf("%.1f %s", *stats.FinalScore, stats.Grade)
			}
			fmt.Fprintf(out, "%s  %-30s  reviews=%d  images=%d/%d  score=%s\n",
				p.ID, p.Name, stats.ReviewCount, stats.ImageTexts, stats.ImageCount, score)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
}
