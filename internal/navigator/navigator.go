// Package navigator walks a product detail page in a fixed order: load,
// bot-gate wait, stabilize, field extraction, detail images, then the
// review tab with rating distribution, sort, and pagination. Every step
// after the initial navigation degrades on failure instead of aborting.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/trustlens/internal/browser"
	"github.com/sells-group/trustlens/internal/config"
	"github.com/sells-group/trustlens/internal/model"
)

// botGateMarkers appear in the page body while the bot verification
// interstitial is shown.
var botGateMarkers = []string{
	"잠시만 기다려 주세요",
	"확인 중",
	"Checking your browser",
}

// Navigator extracts a ScrapeResult from one product page.
type Navigator struct {
	session browser.Session
	profile Profile
	browser config.BrowserConfig
	scrape  config.ScrapeConfig

	// sleep is swapped for a no-op in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Navigator over an open browser session.
func New(session browser.Session, profile Profile, bcfg config.BrowserConfig, scfg config.ScrapeConfig) *Navigator {
	return &Navigator{
		session: session,
		profile: profile,
		browser: bcfg,
		scrape:  scfg,
		sleep:   sleepCtx,
	}
}

// Scrape runs the full page walk. Only the initial navigation is a hard
// failure; everything downstream records what it could get.
func (n *Navigator) Scrape(ctx context.Context, url string) (*model.ScrapeResult, error) {
	res := &model.ScrapeResult{
		Product: model.Product{URL: url, ScrapedAt: time.Now().UTC()},
	}

	navCtx, cancel := context.WithTimeout(ctx, secsOr(n.browser.NavTimeoutSecs, 60))
	defer cancel()
	if err := n.session.Navigate(navCtx, url); err != nil {
		return nil, err
	}
	zap.L().Info("page loaded", zap.String("url", url))

	res.BotGate = n.waitBotGate(ctx)
	n.stabilize(ctx)
	n.extractFields(ctx, res)
	res.Images = n.collectImages(ctx)

	n.activateReviewTab(ctx)
	res.Product.RatingDist = n.readRatingDistribution(ctx)
	n.applyHelpfulSort(ctx)
	res.Reviews = n.paginateReviews(ctx)

	zap.L().Info("scrape complete",
		zap.String("url", url),
		zap.Int("images", len(res.Images)),
		zap.Int("reviews", len(res.Reviews)),
		zap.String("bot_gate", string(res.BotGate)))
	return res, nil
}

// waitBotGate polls the body text until the verification markers clear.
// A timeout degrades to BotGateTimedOut; the walk continues either way.
func (n *Navigator) waitBotGate(ctx context.Context) model.BotGateOutcome {
	poll := secsOr(n.browser.BotPollSecs, 2)
	waitCap := secsOr(n.browser.BotWaitCapSecs, 120)
	polls := int(waitCap / poll)
	if polls < 1 {
		polls = 1
	}

	for i := 0; i < polls; i++ {
		body, err := n.bodyText(ctx, 5*time.Second)
		if err == nil && !containsAny(body, botGateMarkers) {
			if i == 0 {
				return model.BotGateNotPresent
			}
			zap.L().Info("bot verification cleared")
			return model.BotGateCleared
		}
		if i == 0 {
			zap.L().Info("bot verification gate detected, waiting",
				zap.Duration("poll", poll), zap.Duration("cap", waitCap))
		}
		if n.sleep(ctx, poll) != nil {
			break
		}
	}
	zap.L().Warn("bot verification wait timed out, continuing")
	return model.BotGateTimedOut
}

// stabilize gives lazy content a chance to settle with a small scroll
// pass down and back up.
func (n *Navigator) stabilize(ctx context.Context) {
	_ = n.sleep(ctx, 3*time.Second)
	_ = n.session.ScrollBy(ctx, 0, 200)
	_ = n.sleep(ctx, time.Second)
	_ = n.session.ScrollBy(ctx, 0, -200)
	_ = n.sleep(ctx, time.Second)
}

func (n *Navigator) extractFields(ctx context.Context, res *model.ScrapeResult) {
	timeout := secsOr(n.scrape.FieldTimeoutSecs, 10)

	name, err := n.getText(ctx, n.profile.Name, timeout)
	res.Product.Name = name
	res.Fields = append(res.Fields, fieldResult("name", name, err))

	price, err := n.price(ctx)
	res.Product.Price = price
	res.Fields = append(res.Fields, fieldResult("price", price, err))

	rating, err := n.getText(ctx, n.profile.Rating, timeout)
	res.Product.Rating = rating
	res.Fields = append(res.Fields, fieldResult("rating", rating, err))

	count, err := n.getText(ctx, n.profile.ReviewCount, timeout)
	res.Product.ReviewCount = count
	res.Fields = append(res.Fields, fieldResult("review_count", count, err))

	for _, f := range res.Fields {
		if f.Failure != model.FieldFailureNone {
			zap.L().Warn("field extraction degraded",
				zap.String("field", f.Name), zap.String("failure", string(f.Failure)))
		}
	}
}

// price prefers the discounted price and falls back to the regular one.
// Both selectors get a short timeout; both missing yields "".
func (n *Navigator) price(ctx context.Context) (string, error) {
	discount, err := n.getText(ctx, n.profile.DiscountPrice, 2*time.Second)
	if err == nil && discount != "" {
		return discount, nil
	}
	regular, regErr := n.getText(ctx, n.profile.RegularPrice, 2*time.Second)
	if regErr == nil && regular != "" {
		return regular, nil
	}
	if err == nil {
		err = regErr
	}
	return "", err
}

// collectImages opens the detail section and tries the selector
// strategies in order; the first one producing URLs wins. A dead toggle
// control means no images, not an error.
func (n *Navigator) collectImages(ctx context.Context) []string {
	_ = n.session.ScrollBy(ctx, 0, 2000)
	_ = n.sleep(ctx, 2*time.Second)

	if err := n.click(ctx, n.profile.DetailToggle, 10*time.Second); err != nil {
		zap.L().Warn("detail toggle unavailable, skipping images", zap.Error(err))
		return nil
	}
	_ = n.sleep(ctx, 3*time.Second)

	for _, sel := range n.profile.ImageStrategies {
		attrCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		attrs, err := n.session.Attributes(attrCtx, sel)
		cancel()
		if err != nil {
			zap.L().Debug("image strategy failed", zap.String("selector", sel), zap.Error(err))
			continue
		}

		seen := make(map[string]bool)
		var urls []string
		for _, a := range attrs {
			src := imageSrc(a)
			if src != "" && !seen[src] {
				seen[src] = true
				urls = append(urls, src)
			}
		}
		if len(urls) > 0 {
			zap.L().Info("detail images collected",
				zap.String("selector", sel), zap.Int("count", len(urls)))
			return urls
		}
	}
	zap.L().Warn("no detail images found under any strategy")
	return nil
}

// imageSrc picks the first URL-bearing attribute in priority order.
func imageSrc(attrs map[string]string) string {
	for _, key := range []string{"src", "data-src", "data-original", "data-lazy"} {
		if v := attrs[key]; strings.Contains(v, "http") {
			return v
		}
	}
	return ""
}

func (n *Navigator) activateReviewTab(ctx context.Context) {
	if err := n.click(ctx, n.profile.ReviewTab, 10*time.Second); err != nil {
		zap.L().Warn("review tab click failed", zap.Error(err))
		return
	}
	_ = n.sleep(ctx, 2*time.Second)
}

// readRatingDistribution reads the per-star percentage graph, 5★ first.
// Rows that fail to read stay empty.
func (n *Navigator) readRatingDistribution(ctx context.Context) model.RatingDistribution {
	var dist model.RatingDistribution
	if _, err := n.getText(ctx, n.profile.GraphArea, 5*time.Second); err != nil {
		zap.L().Warn("rating distribution graph not found", zap.Error(err))
		return dist
	}

	slots := []*string{&dist.FiveStar, &dist.FourStar, &dist.ThreeStar, &dist.TwoStar, &dist.OneStar}
	for i, slot := range slots {
		sel := fmt.Sprintf(n.profile.GraphPercent, i+1)
		pct, err := n.getText(ctx, sel, time.Second)
		if err != nil || pct == "" {
			zap.L().Warn("rating distribution row unreadable", zap.Int("star", 5-i))
			continue
		}
		*slot = pct
	}
	return dist
}

func (n *Navigator) applyHelpfulSort(ctx context.Context) {
	if err := n.click(ctx, n.profile.SortHelpful, 5*time.Second); err != nil {
		zap.L().Warn("helpful sort unavailable", zap.Error(err))
		return
	}
	_ = n.sleep(ctx, 2*time.Second)
}

// paginateReviews walks review pages until the page comes back empty,
// the next control is missing, or MaxReviews is reached. Pages are
// grouped in blocks of ten; from the last page of a block the "next
// block" control advances instead of the sibling link.
func (n *Navigator) paginateReviews(ctx context.Context) []model.Review {
	max := n.scrape.MaxReviews
	if max <= 0 {
		max = 100
	}

	var all []model.Review
	for len(all) < max {
		page := n.extractReviewPage(ctx)
		if len(page) == 0 {
			zap.L().Info("empty review page, stopping pagination")
			break
		}
		for _, r := range page {
			if len(all) >= max {
				break
			}
			all = append(all, r)
		}
		if len(all) >= max {
			zap.L().Info("review cap reached", zap.Int("max", max))
			break
		}

		current, err := n.getText(ctx, n.profile.PagingCurrent, 2*time.Second)
		if err != nil || current == "" {
			break
		}
		pageNum, err := strconv.Atoi(current)
		if err != nil {
			break
		}

		next := n.profile.PagingNext
		if pageNum%10 == 0 {
			next = n.profile.PagingNextBlock
		}
		if ok, err := n.session.Exists(ctx, next); err != nil || !ok {
			zap.L().Info("last review page reached", zap.Int("page", pageNum))
			break
		}
		if err := n.click(ctx, next, 2*time.Second); err != nil {
			zap.L().Warn("next page click failed, stopping pagination", zap.Error(err))
			break
		}
		_ = n.sleep(ctx, 2*time.Second)
	}
	return all
}

// extractReviewPage reads the current page's review items. Items whose
// text or rating node is missing (photo-only reviews) are skipped.
func (n *Navigator) extractReviewPage(ctx context.Context) []model.Review {
	if _, err := n.getText(ctx, n.profile.ReviewList, 5*time.Second); err != nil {
		zap.L().Warn("review list not found", zap.Error(err))
		return nil
	}
	items, err := n.session.Texts(ctx, n.profile.ReviewItem)
	if err != nil {
		zap.L().Warn("review items unreadable", zap.Error(err))
		return nil
	}

	var reviews []model.Review
	for i := 1; i <= len(items); i++ {
		text, err := n.getText(ctx, fmt.Sprintf(n.profile.ReviewText, i), time.Second)
		if err != nil {
			zap.L().Debug("review item without text body", zap.Int("item", i))
			continue
		}
		ratingText, err := n.getText(ctx, fmt.Sprintf(n.profile.ReviewRating, i), time.Second)
		if err != nil {
			zap.L().Debug("review item without rating", zap.Int("item", i))
			continue
		}
		reviews = append(reviews, model.Review{Text: text, Rating: parseRating(ratingText)})
	}
	return reviews
}

// parseRating pulls the digit out of the "X점만점에 Y점" phrase; any other
// shape yields "".
func parseRating(text string) string {
	parts := strings.SplitN(text, "점만점에", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(parts[1], "점", ""))
}

// helpers

func (n *Navigator) getText(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	text, err := n.session.Text(tctx, selector)
	if err != nil {
		return "", err
	}
	return cleanText(text), nil
}

func (n *Navigator) bodyText(ctx context.Context, timeout time.Duration) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return n.session.BodyText(tctx)
}

func (n *Navigator) click(ctx context.Context, selector string, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return n.session.Click(tctx, selector)
}

// cleanText NFC-normalizes and trims extracted text.
func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func fieldResult(name, value string, err error) model.FieldResult {
	f := model.FieldResult{Name: name, Value: value}
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		f.Failure = model.FieldFailureTimeout
	case err != nil:
		f.Failure = model.FieldFailureNotFound
	case value == "":
		f.Failure = model.FieldFailureEmpty
	}
	return f
}

func secsOr(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
