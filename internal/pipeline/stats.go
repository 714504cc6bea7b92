package pipeline

import (
	"context"

	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/internal/store"
)

// Stats assembles the read model behind the final pipeline stage and the
// products command. Missing downstream artifacts (summary, evaluation,
// claims) leave their fields zero rather than failing.
func Stats(ctx context.Context, st store.Store, productID string) (*model.ProductStats, error) {
	product, err := st.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	stats := &model.ProductStats{
		ProductID: product.ID,
		URL:       product.URL,
		Name:      product.Name,
	}

	images, err := st.GetImages(ctx, productID)
	if err != nil {
		return nil, err
	}
	stats.ImageCount = len(images)

	texts, err := st.GetImageTexts(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, t := range texts {
		if t.Text != "" {
			stats.ImageTexts++
		}
	}

	counts, err := st.GetReviewRatingCounts(ctx, productID)
	if err != nil {
		return nil, err
	}
	stats.RatingCounts = counts
	for _, n := range counts {
		stats.ReviewCount += n
	}

	if summary, sumErr := st.GetSummary(ctx, productID); sumErr == nil && summary != "" {
		stats.HasSummary = true
	}

	groups, err := st.GetGroupAnalyses(ctx, productID)
	if err != nil {
		return nil, err
	}
	stats.GroupsAnalyzed = len(groups)

	if eval, evalErr := st.GetEvaluation(ctx, productID); evalErr == nil && eval != nil {
		score := eval.FinalScore
		stats.FinalScore = &score
		stats.Grade = eval.Grade
	}
	if claims, claimsErr := st.GetClaimsAnalysis(ctx, productID); claimsErr == nil && claims != nil {
		stats.TrustLevel = claims.TrustLevel
	}

	return stats, nil
}
