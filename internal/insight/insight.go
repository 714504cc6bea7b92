// Package insight runs the review and summary analyses: per-sentiment-group
// advantage/disadvantage extraction over possibly-chunked review sets, and
// the structured product summary built from image texts.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/config"
	"github.com/sells-group/trustlens/internal/llmjson"
	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/pkg/anthropic"
)

// Findings is one group's extracted advantage/disadvantage lists.
type Findings struct {
	Advantages    []string `json:"advantages"`
	Disadvantages []string `json:"disadvantages"`
}

// Analyzer drives the reasoning model for review and summary analysis.
type Analyzer struct {
	client anthropic.Client
	model  string
	cfg    config.AnalyzeConfig
}

// New builds an Analyzer.
func New(client anthropic.Client, model string, cfg config.AnalyzeConfig) *Analyzer {
	return &Analyzer{client: client, model: model, cfg: cfg}
}

// AnalyzeGroup extracts findings from one sentiment group's reviews.
// Large groups are split into chunks whose results are concatenated
// without deduplication; a chunk that fails to parse contributes
// nothing. The group as a whole never errors.
func (a *Analyzer) AnalyzeGroup(ctx context.Context, group model.SentimentGroup, reviews []string) Findings {
	if len(reviews) == 0 {
		zap.L().Info("no reviews in group, skipping analysis", zap.String("group", string(group)))
		return Findings{Advantages: []string{}, Disadvantages: []string{}}
	}

	threshold := intOr(a.cfg.ChunkThreshold, 100)
	chunkSize := intOr(a.cfg.ChunkSize, 80)

	if len(reviews) <= threshold {
		return a.analyzeChunk(ctx, group, reviews, 0)
	}

	zap.L().Info("review group exceeds chunk threshold, splitting",
		zap.String("group", string(group)),
		zap.Int("reviews", len(reviews)),
		zap.Int("chunk_size", chunkSize))

	merged := Findings{Advantages: []string{}, Disadvantages: []string{}}
	for i := 0; i < len(reviews); i += chunkSize {
		end := i + chunkSize
		if end > len(reviews) {
			end = len(reviews)
		}
		chunk := a.analyzeChunk(ctx, group, reviews[i:end], i)
		merged.Advantages = append(merged.Advantages, chunk.Advantages...)
		merged.Disadvantages = append(merged.Disadvantages, chunk.Disadvantages...)
	}
	return merged
}

// analyzeChunk numbers the reviews (1-based plus offset so numbering
// stays global across chunks) and asks the model for JSON findings.
func (a *Analyzer) analyzeChunk(ctx context.Context, group model.SentimentGroup, reviews []string, offset int) Findings {
	empty := Findings{Advantages: []string{}, Disadvantages: []string{}}

	numbered := make([]string, len(reviews))
	for i, review := range reviews {
		numbered[i] = fmt.Sprintf("[리뷰 %d] %s", offset+i+1, review)
	}

	temperature := 0.0
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   3000,
		Temperature: &temperature,
		System:      anthropic.BuildCachedSystemBlocks(analysisPrompt(group)),
		Messages: []anthropic.Message{{
			Role: "user",
			Content: fmt.Sprintf("다음은 %s 그룹의 리뷰입니다:\n\n%s",
				group, strings.Join(numbered, "\n\n")),
		}},
	})
	if err != nil {
		zap.L().Error("group analysis call failed",
			zap.String("group", string(group)), zap.Error(err))
		return empty
	}
	resp.Usage.LogCost(a.model, "analyze")

	var findings Findings
	if err := llmjson.Unmarshal(resp.Text(), &findings); err != nil {
		zap.L().Warn("group analysis response did not parse",
			zap.String("group", string(group)), zap.Error(err))
		return empty
	}
	if findings.Advantages == nil {
		findings.Advantages = []string{}
	}
	if findings.Disadvantages == nil {
		findings.Disadvantages = []string{}
	}
	return findings
}

// BuildSummary merges the image texts into one structured product
// summary. The model is asked for JSON but the raw response is returned
// either way; a non-JSON response is only logged.
func (a *Analyzer) BuildSummary(ctx context.Context, texts []string) (string, error) {
	combined := strings.Join(texts, "\n\n")

	temperature := 0.0
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   2000,
		Temperature: &temperature,
		System:      []anthropic.SystemBlock{{Text: summaryPrompt}},
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: "다음은 제품의 모든 상세 이미지에서 추출된 텍스트들입니다:\n\n" + combined,
		}},
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(a.model, "summarize")

	summary := strings.TrimSpace(resp.Text())
	if !json.Valid([]byte(summary)) {
		zap.L().Warn("structured summary is not valid JSON, keeping raw text")
	}
	return summary, nil
}

func intOr(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
