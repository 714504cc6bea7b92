package evaluate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/llmjson"
	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/pkg/anthropic"
)

// Evaluator runs the model-assisted parts of the evaluation.
type Evaluator struct {
	client anthropic.Client
	model  string
}

// New builds an Evaluator.
func New(client anthropic.Client, model string) *Evaluator {
	return &Evaluator{client: client, model: model}
}

// Evaluate produces the full trust score for one product. A missing
// summary or missing group analyses degrade to a zero-penalty score
// instead of failing.
func (e *Evaluator) Evaluate(ctx context.Context, productID string, counts map[string]int, summary string, groups []model.GroupAnalysis) *model.Evaluation {
	weighted, details, err := WeightedScore(counts)
	if err != nil {
		zap.L().Warn("weighted score unavailable",
			zap.String("product_id", productID), zap.Error(err))
	}

	var contradictions []model.Contradiction
	if summary == "" || len(groups) == 0 {
		zap.L().Warn("contradiction detection skipped",
			zap.String("product_id", productID),
			zap.Bool("has_summary", summary != ""),
			zap.Int("groups", len(groups)))
	} else {
		contradictions = e.DetectContradictions(ctx, summary, groups)
	}

	penalty := PenaltyScore(contradictions)
	scaled := ToScale100(weighted)
	final := FinalScore(scaled, penalty)

	zap.L().Info("product evaluated",
		zap.String("product_id", productID),
		zap.Float64("weighted_score", scaled),
		zap.Float64("penalty", penalty),
		zap.Float64("final_score", final),
		zap.Int("contradictions", len(contradictions)))

	return &model.Evaluation{
		ProductID:            productID,
		WeightedScore:        scaled,
		ContradictionPenalty: penalty,
		FinalScore:           final,
		Grade:                Grade(final),
		Contradictions:       contradictions,
		Details:              details,
		EvaluatedAt:          time.Now().UTC(),
	}
}

// DetectContradictions asks the model to compare the marketing summary
// against the aggregated review findings. Any failure yields no
// contradictions (and so no penalty).
func (e *Evaluator) DetectContradictions(ctx context.Context, summary string, groups []model.GroupAnalysis) []model.Contradiction {
	temperature := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   1500,
		Temperature: &temperature,
		System:      []anthropic.SystemBlock{{Text: contradictionPrompt}},
		Messages: []anthropic.Message{{
			Role: "user",
			Content: fmt.Sprintf("상세정보:\n%s\n\n리뷰 분석 결과:\n%s",
				summary, formatReviewGroups(groups)),
		}},
	})
	if err != nil {
		zap.L().Error("contradiction detection call failed", zap.Error(err))
		return nil
	}
	resp.Usage.LogCost(e.model, "evaluate")

	var parsed struct {
		Contradictions []model.Contradiction `json:"contradictions"`
	}
	if err := llmjson.Unmarshal(resp.Text(), &parsed); err != nil {
		zap.L().Warn("contradiction response did not parse", zap.Error(err))
		return nil
	}
	return parsed.Contradictions
}

// AnalyzeClaims runs the claims-vs-reality cross-check. Parse failure
// returns empty findings with a neutral trust level and the raw
// response kept for diagnostics.
func (e *Evaluator) AnalyzeClaims(ctx context.Context, productID, summary string, groups []model.GroupAnalysis) (*model.ClaimsAnalysis, error) {
	temperature := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   2000,
		Temperature: &temperature,
		System:      []anthropic.SystemBlock{{Text: claimsSystemPrompt}},
		Messages: []anthropic.Message{{
			Role: "user",
			Content: fmt.Sprintf(claimsUserPromptFormat,
				summary, formatReviewGroups(groups)),
		}},
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(e.model, "claims")

	raw := strings.TrimSpace(resp.Text())
	analysis := &model.ClaimsAnalysis{
		ProductID:  productID,
		AnalyzedAt: time.Now().UTC(),
	}

	var parsed struct {
		Contradictions    []string `json:"contradictions"`
		ConsistencyPoints []string `json:"consistency_points"`
		OverallAssessment string   `json:"overall_assessment"`
		TrustLevel        string   `json:"trust_level"`
	}
	if err := llmjson.Unmarshal(raw, &parsed); err != nil {
		zap.L().Warn("claims analysis response did not parse",
			zap.String("product_id", productID), zap.Error(err))
		analysis.Contradictions = []string{}
		analysis.ConsistencyPoints = []string{}
		analysis.TrustLevel = model.TrustLevelNeutral
		analysis.RawResponse = raw
		return analysis, nil
	}

	analysis.Contradictions = orEmpty(parsed.Contradictions)
	analysis.ConsistencyPoints = orEmpty(parsed.ConsistencyPoints)
	analysis.OverallAssessment = parsed.OverallAssessment
	analysis.TrustLevel = parsed.TrustLevel
	if analysis.TrustLevel == "" {
		analysis.TrustLevel = model.TrustLevelNeutral
	}
	analysis.RawResponse = raw
	return analysis, nil
}

// formatReviewGroups renders the group analyses the way the prompts
// expect them: one section per group with advantage/disadvantage bullets.
func formatReviewGroups(groups []model.GroupAnalysis) string {
	groupNames := map[model.SentimentGroup]string{
		model.GroupPositive: "긍정 리뷰 (5점)",
		model.GroupNeutral:  "중립 리뷰 (4-3점)",
		model.GroupNegative: "부정 리뷰 (2-1점)",
	}

	var b strings.Builder
	for _, g := range groups {
		name, ok := groupNames[g.Group]
		if !ok {
			name = string(g.Group)
		}
		fmt.Fprintf(&b, "\n### %s (%d개 리뷰)\n", name, g.ReviewCount)
		if len(g.Advantages) > 0 {
			b.WriteString("**장점:**\n")
			for _, adv := range g.Advantages {
				fmt.Fprintf(&b, "- %s\n", adv)
			}
		}
		if len(g.Disadvantages) > 0 {
			b.WriteString("**단점:**\n")
			for _, dis := range g.Disadvantages {
				fmt.Fprintf(&b, "- %s\n", dis)
			}
		}
	}
	return b.String()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
