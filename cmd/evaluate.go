package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/trustlens/internal/model"
)

// evaluateCmd recomputes analysis, score and claims check from the
// stored reviews and summary, without touching the page again.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <product-url-or-id>",
	Short: "Re-analyze reviews and rescore a scraped product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("evaluate"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := newEnv(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		product, err := resolveProduct(ctx, env.Store, args[0])
		if err != nil {
			return err
		}

		for _, group := range model.AllGroups() {
			reviews, revErr := env.Store.GetReviewsByRating(ctx, product.ID, group.Ratings())
			if revErr != nil {
				return revErr
			}
			texts := make([]string, len(reviews))
			for i, r := range reviews {
				texts[i] = r.Text
			}
			findings := env.Analyzer.AnalyzeGroup(ctx, group, texts)
			analysis := &model.GroupAnalysis{
				ProductID:     product.ID,
				Group:         group,
				Advantages:    findings.Advantages,
				Disadvantages: findings.Disadvantages,
				ReviewCount:   len(texts),
				AnalyzedAt:    time.Now().UTC(),
			}
			if saveErr := env.Store.UpsertGroupAnalysis(ctx, analysis); saveErr != nil {
				return saveErr
			}
		}

		counts, err := env.Store.GetReviewRatingCounts(ctx, product.ID)
		if err != nil {
			return err
		}
		summary, err := env.Store.GetSummary(ctx, product.ID)
		if err != nil {
			summary = ""
		}
		groups, err := env.Store.GetGroupAnalyses(ctx, product.ID)
		if err != nil {
			return err
		}

		eval := env.Evaluator.Evaluate(ctx, product.ID, counts, summary, groups)
		if err := env.Store.UpsertEvaluation(ctx, eval); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Weighted score: %.1f\n", eval.WeightedScore)
		fmt.Fprintf(out, "Contradiction penalty: %.0f\n", eval.ContradictionPenalty)
		fmt.Fprintf(out, "Final score: %.1f (%s)\n", eval.FinalScore, eval.Grade)

		if summary == "" || len(groups) == 0 {
			fmt.Fprintln(out, "Claims check skipped: summary or group analyses missing.")
			return nil
		}
		claims, err := env.Evaluator.AnalyzeClaims(ctx, product.ID, summary, groups)
		if err != nil {
			return err
		}
		if err := env.Store.UpsertClaimsAnalysis(ctx, claims); err != nil {
			return err
		}
		fmt.Fprintf(out, "Trust level: %s\n", claims.TrustLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
