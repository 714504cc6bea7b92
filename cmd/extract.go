package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/trustlens/internal/model"
)

// extractCmd reruns image text extraction for a product that was
// already scraped, or sweeps every unprocessed image across all
// products when no argument is given.
var extractCmd = &cobra.Command{
	Use:   "extract [product-url-or-id]",
	Short: "Extract marketing image texts and rebuild the product summary",
	Long: "Extract marketing image texts for one product and rebuild its summary.\n" +
		"Without an argument, extracts text for every image that has no\n" +
		"extraction row yet, across all products, without touching summaries.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("extract"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := newEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		productID := ""
		if len(args) == 1 {
			product, err := resolveProduct(ctx, env.Store, args[0])
			if err != nil {
				return err
			}
			productID = product.ID
		}

		images, err := env.Store.GetUnprocessedImages(ctx, productID)
		if err != nil {
			return err
		}
		extracted := 0
		if len(images) > 0 {
			urls := make([]string, len(images))
			for i, img := range images {
				urls[i] = img.URL
			}
			texts := env.Extractor.ExtractAll(ctx, urls)
			for _, img := range images {
				text := texts[img.URL]
				if text != "" {
					extracted++
				}
				it := &model.ImageText{
					ImageID:     img.ID,
					ProductID:   img.ProductID,
					ImageURL:    img.URL,
					Text:        text,
					ExtractedAt: time.Now().UTC(),
				}
				if err := env.Store.UpsertImageText(ctx, it); err != nil {
					return err
				}
			}
		}

		if productID == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d/%d unprocessed images across all products.\n",
				extracted, len(images))
			return nil
		}

		imageTexts, err := env.Store.GetImageTexts(ctx, productID)
		if err != nil {
			return err
		}
		var inputs []string
		for _, t := range imageTexts {
			if t.Text != "" {
				inputs = append(inputs, t.Text)
			}
		}
		if len(inputs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No image texts available; summary skipped.")
			return nil
		}
		summary, err := env.Analyzer.BuildSummary(ctx, inputs)
		if err != nil {
			return err
		}
		if err := env.Store.SaveSummary(ctx, productID, summary); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d/%d new images, %d texts total, summary saved.\n",
			extracted, len(images), len(inputs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
