package store

import (
	"context"

	"github.com/sells-group/trustlens/internal/model"
)

// Store defines the persistence interface for the trust analysis pipeline.
type Store interface {
	// Products
	UpsertProductByURL(ctx context.Context, p *model.Product) (string, error)
	FindProductByURL(ctx context.Context, url string) (*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)

	// Scrape children (each replacement runs in one transaction)
	ReplaceImages(ctx context.Context, productID string, urls []string) error
	ReplaceReviews(ctx context.Context, productID string, reviews []model.Review) error
	GetImages(ctx context.Context, productID string) ([]model.Image, error)
	// GetUnprocessedImages lists images without an extracted text row.
	// An empty productID covers all products.
	GetUnprocessedImages(ctx context.Context, productID string) ([]model.Image, error)
	GetReviewsByRating(ctx context.Context, productID string, ratings []string) ([]model.Review, error)
	GetReviewRatingCounts(ctx context.Context, productID string) (map[string]int, error)

	// Image texts
	UpsertImageText(ctx context.Context, t *model.ImageText) error
	GetImageTexts(ctx context.Context, productID string) ([]model.ImageText, error)

	// Summary
	SaveSummary(ctx context.Context, productID, summary string) error
	GetSummary(ctx context.Context, productID string) (string, error)

	// Analysis
	UpsertGroupAnalysis(ctx context.Context, a *model.GroupAnalysis) error
	GetGroupAnalyses(ctx context.Context, productID string) ([]model.GroupAnalysis, error)

	// Evaluation
	UpsertEvaluation(ctx context.Context, e *model.Evaluation) error
	GetEvaluation(ctx context.Context, productID string) (*model.Evaluation, error)
	UpsertClaimsAnalysis(ctx context.Context, c *model.ClaimsAnalysis) error
	GetClaimsAnalysis(ctx context.Context, productID string) (*model.ClaimsAnalysis, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
