// Package extractor reads marketing text out of product detail images
// with a vision model. Each image is probed over HTTP first; anything
// that fails probing, extraction, or validation contributes an empty
// string rather than an error.
package extractor

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/sells-group/trustlens/internal/config"
	"github.com/sells-group/trustlens/internal/resilience"
	"github.com/sells-group/trustlens/pkg/anthropic"
)

const visionSystemPrompt = `당신은 화장품/뷰티 제품 이미지에서 텍스트를 추출하는 전문가입니다. ` +
	`한국어와 영어 텍스트를 정확하게 읽고 구조화된 형태로 정리합니다. ` +
	`이미지 품질이 낮거나 일부가 가려져 있어도 읽을 수 있는 모든 텍스트를 추출하세요.`

const visionUserPrompt = `이 화장품/뷰티 제품 상세정보 이미지에서 모든 한국어와 영어 텍스트를 정확하게 추출해주세요.

반드시 다음 형식으로 정리해주세요:

**제품정보:**
- 브랜드명:
- 제품명:
- 용량/함량:

**성분정보:**
- 주요 성분:
- 전체 성분:

**효능/특징:**
-

**사용법:**
-

**주의사항:**
-

**기타 텍스트:**
-

이미지에 있는 모든 텍스트를 빠짐없이 추출하되, 위 형식에 맞춰 정리해주세요.
해당 정보가 없으면 해당 항목은 비워두세요.`

// refusalMarkers identify model responses that declined to read the
// image instead of extracting text.
var refusalMarkers = []string{
	"i'm unable to",
	"i can't assist",
	"i'm sorry",
	"i cannot",
	"unable to provide",
	"can't help",
	"죄송하지만",
	"추출할 수 없습니다",
}

// Extractor turns image URLs into extracted text.
type Extractor struct {
	client  anthropic.Client
	http    *http.Client
	model   string
	cfg     config.ExtractConfig
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// New builds an Extractor. httpClient may be nil; a default client with
// the probe timeout is used then.
func New(client anthropic.Client, httpClient *http.Client, model string, cfg config.ExtractConfig) *Extractor {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	pace := secsOr(cfg.PaceSecs, 2)
	if httpClient == nil {
		httpClient = &http.Client{Timeout: secsOr(cfg.ProbeTimeoutSecs, 15)}
	}
	return &Extractor{
		client:  client,
		http:    httpClient,
		model:   model,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		limiter: rate.NewLimiter(rate.Every(pace), 1),
	}
}

// ExtractAll processes every URL and returns exactly one entry per URL.
// Failures of any kind map to "".
func (e *Extractor) ExtractAll(ctx context.Context, urls []string) map[string]string {
	results := make(map[string]string, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup

	zap.L().Info("image text extraction started",
		zap.Int("images", len(urls)), zap.String("model", e.model))

	for _, url := range urls {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			results[url] = ""
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			defer e.sem.Release(1)
			text := e.extractOne(ctx, url)
			mu.Lock()
			results[url] = text
			mu.Unlock()
		}(url)
	}
	wg.Wait()

	ok := 0
	for _, t := range results {
		if t != "" {
			ok++
		}
	}
	zap.L().Info("image text extraction finished",
		zap.Int("images", len(urls)), zap.Int("extracted", ok))
	return results
}

func (e *Extractor) extractOne(ctx context.Context, url string) string {
	if !e.ProbeImage(ctx, url) {
		zap.L().Warn("image probe failed, skipping", zap.String("url", url))
		return ""
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return ""
	}
	text, err := e.ExtractText(ctx, url)
	if err != nil {
		zap.L().Error("image text extraction failed", zap.String("url", url), zap.Error(err))
		return ""
	}
	if !e.validText(text) {
		zap.L().Warn("extracted text rejected", zap.String("url", url))
		return ""
	}
	return text
}

// ProbeImage checks the URL with a HEAD request. Valid means status
// 200 or 206 and an image content type. Network failures and
// retryable status codes (408, 429, 5xx) are retried before the probe
// gives up.
func (e *Extractor) ProbeImage(ctx context.Context, url string) bool {
	retry := resilience.FixedRetryConfig(
		intOr(e.cfg.MaxAttempts, 3),
		secsOr(e.cfg.RetryDelaySecs, 5),
	)
	retry.OnRetry = resilience.RetryLogger("http", "probe_image")

	ok, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (bool, error) {
		return e.probeOnce(ctx, url)
	})
	if err != nil {
		zap.L().Warn("image probe failed", zap.String("url", url), zap.Error(err))
		return false
	}
	return ok
}

func (e *Extractor) probeOnce(ctx context.Context, url string) (bool, error) {
	tctx, cancel := context.WithTimeout(ctx, secsOr(e.cfg.ProbeTimeoutSecs, 15))
	defer cancel()

	req, err := http.NewRequestWithContext(tctx, http.MethodHead, url, nil)
	if err != nil {
		zap.L().Warn("image probe request invalid", zap.String("url", url), zap.Error(err))
		return false, err
	}
	resp, err := e.http.Do(req)
	if err != nil {
		return false, resilience.NewTransientError(err, 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return false, resilience.NewTransientError(
			eris.Errorf("extractor: probe returned status %d", resp.StatusCode),
			resp.StatusCode)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	ok := (resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent) &&
		strings.Contains(contentType, "image")
	if !ok {
		zap.L().Warn("image probe rejected",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", contentType))
	}
	return ok, nil
}

// ExtractText calls the vision model for one image, retrying a fixed
// number of times with a flat delay.
func (e *Extractor) ExtractText(ctx context.Context, imageURL string) (string, error) {
	retry := resilience.FixedRetryConfig(
		intOr(e.cfg.MaxAttempts, 3),
		secsOr(e.cfg.RetryDelaySecs, 5),
	)
	// Vision calls degrade to "" at the call site, so every error is
	// worth one more attempt.
	retry.ShouldRetry = func(error) bool { return true }
	retry.OnRetry = resilience.RetryLogger("anthropic", "extract_image_text")

	temperature := 0.0
	callTimeout := secsOr(e.cfg.CallTimeoutSecs, 120)

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		return e.client.CreateMessage(callCtx, anthropic.MessageRequest{
			Model:       e.model,
			MaxTokens:   4096,
			Temperature: &temperature,
			System:      []anthropic.SystemBlock{{Text: visionSystemPrompt}},
			Messages: []anthropic.Message{{
				Role:     "user",
				Content:  visionUserPrompt,
				ImageURL: imageURL,
			}},
		})
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(e.model, "extract")
	return strings.TrimSpace(resp.Text()), nil
}

// validText rejects responses that are refusals or do not exceed the
// minimum rune count.
func (e *Extractor) validText(text string) bool {
	t := strings.TrimSpace(text)
	min := e.cfg.MinTextLength
	if min <= 0 {
		min = 10
	}
	if utf8.RuneCountInString(t) <= min {
		return false
	}
	lower := strings.ToLower(t)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

func secsOr(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

func intOr(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
