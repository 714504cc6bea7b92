package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/insight"
	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/internal/store"
)

// Scraper walks one product detail page.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.ScrapeResult, error)
}

// TextExtractor turns marketing image URLs into text. The result map has
// exactly one entry per input URL, empty string on failure.
type TextExtractor interface {
	ExtractAll(ctx context.Context, urls []string) map[string]string
}

// Analyzer aggregates per-group review findings and builds the product
// summary from image texts.
type Analyzer interface {
	AnalyzeGroup(ctx context.Context, group model.SentimentGroup, reviews []string) insight.Findings
	BuildSummary(ctx context.Context, texts []string) (string, error)
}

// Evaluator scores the product and runs the claims cross-check.
type Evaluator interface {
	Evaluate(ctx context.Context, productID string, counts map[string]int, summary string, groups []model.GroupAnalysis) *model.Evaluation
	AnalyzeClaims(ctx context.Context, productID, summary string, groups []model.GroupAnalysis) (*model.ClaimsAnalysis, error)
}

// Pipeline orchestrates stages 1-7 of the trust analysis for one URL.
type Pipeline struct {
	store     store.Store
	scraper   Scraper
	extractor TextExtractor
	analyzer  Analyzer
	evaluator Evaluator
}

// New creates a Pipeline with all dependencies.
func New(st store.Store, sc Scraper, ex TextExtractor, an Analyzer, ev Evaluator) *Pipeline {
	return &Pipeline{
		store:     st,
		scraper:   sc,
		extractor: ex,
		analyzer:  an,
		evaluator: ev,
	}
}

// Run executes the full analysis pipeline for a single product URL.
// A scrape failure falls back to the cached product record when one
// exists; only a failure with no cached record aborts the run.
func (p *Pipeline) Run(ctx context.Context, url string) (*model.PipelineResult, error) {
	log := zap.L().With(zap.String("url", url))
	log.Info("pipeline: starting analysis")

	result := &model.PipelineResult{
		URL:       url,
		StartedAt: time.Now().UTC(),
	}

	// Stage tracking helper: a failed stage is recorded, later stages
	// still run.
	trackStage := func(name string, fn func() (*model.StageResult, error)) *model.StageResult {
		start := time.Now()
		stageResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if stageResult == nil {
			stageResult = &model.StageResult{Name: name}
		}
		stageResult.Name = name
		stageResult.Duration = duration

		if fnErr != nil {
			stageResult.Status = model.StageStatusFailed
			stageResult.Error = fnErr.Error()
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else if stageResult.Status == "" {
			stageResult.Status = model.StageStatusComplete
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
			)
		} else {
			log.Info("pipeline: stage skipped",
				zap.String("stage", name),
				zap.Any("metadata", stageResult.Metadata),
			)
		}

		result.Stages = append(result.Stages, *stageResult)
		return stageResult
	}

	// ===== Stage 1: Scrape =====
	var productID string

	trackStage("1_scrape", func() (*model.StageResult, error) {
		res, scrapeErr := p.scraper.Scrape(ctx, url)
		if scrapeErr != nil {
			return nil, scrapeErr
		}
		id, upsertErr := p.store.UpsertProductByURL(ctx, &res.Product)
		if upsertErr != nil {
			return nil, upsertErr
		}
		if imgErr := p.store.ReplaceImages(ctx, id, res.Images); imgErr != nil {
			return nil, imgErr
		}
		if revErr := p.store.ReplaceReviews(ctx, id, res.Reviews); revErr != nil {
			return nil, revErr
		}
		productID = id
		return &model.StageResult{
			Metadata: map[string]any{
				"images":   len(res.Images),
				"reviews":  len(res.Reviews),
				"bot_gate": string(res.BotGate),
			},
		}, nil
	})

	// Resume from cache when the scrape failed but a prior run left a record.
	if productID == "" {
		cached, findErr := p.store.FindProductByURL(ctx, url)
		if findErr != nil || cached == nil {
			result.FinishedAt = time.Now().UTC()
			return result, eris.New("pipeline: scrape failed and no cached product")
		}
		productID = cached.ID
		result.Resumed = true
		log.Warn("pipeline: resuming from cached product",
			zap.String("product_id", productID))
	}
	result.ProductID = productID

	// ===== Stage 2: Extract image texts =====
	trackStage("2_extract", func() (*model.StageResult, error) {
		images, imgErr := p.store.GetUnprocessedImages(ctx, productID)
		if imgErr != nil {
			return nil, imgErr
		}
		if len(images) == 0 {
			return &model.StageResult{
				Status:   model.StageStatusSkipped,
				Metadata: map[string]any{"reason": "no unprocessed images"},
			}, nil
		}

		urls := make([]string, len(images))
		for i, img := range images {
			urls[i] = img.URL
		}
		texts := p.extractor.ExtractAll(ctx, urls)

		extracted := 0
		for _, img := range images {
			text := texts[img.URL]
			if text != "" {
				extracted++
			}
			it := &model.ImageText{
				ImageID:     img.ID,
				ProductID:   productID,
				ImageURL:    img.URL,
				Text:        text,
				ExtractedAt: time.Now().UTC(),
			}
			if saveErr := p.store.UpsertImageText(ctx, it); saveErr != nil {
				return nil, saveErr
			}
		}
		return &model.StageResult{
			Metadata: map[string]any{
				"images":    len(images),
				"extracted": extracted,
			},
		}, nil
	})

	// ===== Stage 3: Summarize =====
	trackStage("3_summarize", func() (*model.StageResult, error) {
		imageTexts, textErr := p.store.GetImageTexts(ctx, productID)
		if textErr != nil {
			return nil, textErr
		}
		var inputs []string
		for _, t := range imageTexts {
			if t.Text != "" {
				inputs = append(inputs, t.Text)
			}
		}
		if len(inputs) == 0 {
			return &model.StageResult{
				Status:   model.StageStatusSkipped,
				Metadata: map[string]any{"reason": "no image texts available"},
			}, nil
		}

		summary, sumErr := p.analyzer.BuildSummary(ctx, inputs)
		if sumErr != nil {
			return nil, sumErr
		}
		if saveErr := p.store.SaveSummary(ctx, productID, summary); saveErr != nil {
			return nil, saveErr
		}
		return &model.StageResult{
			Metadata: map[string]any{
				"texts":         len(inputs),
				"summary_bytes": len(summary),
			},
		}, nil
	})

	// ===== Stage 4: Analyze review groups =====
	trackStage("4_analyze", func() (*model.StageResult, error) {
		meta := make(map[string]any, 3)
		for _, group := range model.AllGroups() {
			reviews, revErr := p.store.GetReviewsByRating(ctx, productID, group.Ratings())
			if revErr != nil {
				return nil, revErr
			}
			texts := make([]string, len(reviews))
			for i, r := range reviews {
				texts[i] = r.Text
			}

			findings := p.analyzer.AnalyzeGroup(ctx, group, texts)
			analysis := &model.GroupAnalysis{
				ProductID:     productID,
				Group:         group,
				Advantages:    findings.Advantages,
				Disadvantages: findings.Disadvantages,
				ReviewCount:   len(texts),
				AnalyzedAt:    time.Now().UTC(),
			}
			if saveErr := p.store.UpsertGroupAnalysis(ctx, analysis); saveErr != nil {
				return nil, saveErr
			}
			meta[string(group)] = len(texts)
		}
		return &model.StageResult{Metadata: meta}, nil
	})

	// ===== Stage 5: Evaluate =====
	trackStage("5_evaluate", func() (*model.StageResult, error) {
		counts, countErr := p.store.GetReviewRatingCounts(ctx, productID)
		if countErr != nil {
			return nil, countErr
		}
		summary, sumErr := p.store.GetSummary(ctx, productID)
		if sumErr != nil {
			log.Warn("pipeline: summary unavailable for evaluation", zap.Error(sumErr))
			summary = ""
		}
		groups, groupErr := p.store.GetGroupAnalyses(ctx, productID)
		if groupErr != nil {
			return nil, groupErr
		}

		eval := p.evaluator.Evaluate(ctx, productID, counts, summary, groups)
		if saveErr := p.store.UpsertEvaluation(ctx, eval); saveErr != nil {
			return nil, saveErr
		}
		result.Evaluation = eval
		return &model.StageResult{
			Metadata: map[string]any{
				"final_score":    eval.FinalScore,
				"grade":          eval.Grade,
				"contradictions": len(eval.Contradictions),
			},
		}, nil
	})

	// ===== Stage 6: Claims cross-check =====
	trackStage("6_claims", func() (*model.StageResult, error) {
		summary, sumErr := p.store.GetSummary(ctx, productID)
		if sumErr != nil {
			summary = ""
		}
		groups, groupErr := p.store.GetGroupAnalyses(ctx, productID)
		if groupErr != nil {
			return nil, groupErr
		}
		if summary == "" || len(groups) == 0 {
			return &model.StageResult{
				Status: model.StageStatusSkipped,
				Metadata: map[string]any{
					"reason": "summary or group analyses missing",
				},
			}, nil
		}

		claims, claimsErr := p.evaluator.AnalyzeClaims(ctx, productID, summary, groups)
		if claimsErr != nil {
			return nil, claimsErr
		}
		if saveErr := p.store.UpsertClaimsAnalysis(ctx, claims); saveErr != nil {
			return nil, saveErr
		}
		result.Claims = claims
		return &model.StageResult{
			Metadata: map[string]any{
				"trust_level":    claims.TrustLevel,
				"contradictions": len(claims.Contradictions),
			},
		}, nil
	})

	// ===== Stage 7: Statistics =====
	trackStage("7_stats", func() (*model.StageResult, error) {
		stats, statsErr := Stats(ctx, p.store, productID)
		if statsErr != nil {
			return nil, statsErr
		}
		result.Stats = stats
		return &model.StageResult{
			Metadata: map[string]any{
				"reviews":     stats.ReviewCount,
				"images":      stats.ImageCount,
				"image_texts": stats.ImageTexts,
			},
		}, nil
	})

	result.Report = FormatReport(result)
	result.FinishedAt = time.Now().UTC()

	log.Info("pipeline: analysis complete",
		zap.String("product_id", productID),
		zap.Bool("resumed", result.Resumed),
		zap.Int("stages", len(result.Stages)),
	)
	return result, nil
}
