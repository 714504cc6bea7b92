package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/config"
)

// ChromeSession drives a headless Chrome instance through the DevTools
// protocol. One session owns one browser process.
type ChromeSession struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

var _ Session = (*ChromeSession)(nil)

// NewChrome launches Chrome per cfg and returns a ready session.
func NewChrome(ctx context.Context, cfg config.BrowserConfig) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "ko-KR"),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			zap.S().Debugf("chromedp: "+format, args...)
		}),
	)

	s := &ChromeSession{ctx: browserCtx, cancelCtx: cancelCtx, cancelAlloc: cancelAlloc}

	startup := []chromedp.Action{network.Enable()}
	if cfg.UserAgent != "" {
		startup = append(startup,
			emulation.SetUserAgentOverride(cfg.UserAgent).WithAcceptLanguage("ko-KR,ko;q=0.9"))
	}
	if err := chromedp.Run(browserCtx, startup...); err != nil {
		s.Close()
		return nil, eris.Wrap(err, "browser: start chrome")
	}
	return s, nil
}

// run executes actions on the browser context, clipped to the caller's
// deadline when one is set.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	return eris.Wrapf(err, "browser: navigate %s", url)
}

func (s *ChromeSession) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", eris.Wrap(err, "browser: body text")
	}
	return text, nil
}

func (s *ChromeSession) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", eris.Wrapf(err, "browser: text %s", selector)
	}
	return text, nil
}

func (s *ChromeSession) Texts(ctx context.Context, selector string) ([]string, error) {
	texts := []string{}
	if err := s.run(ctx, chromedp.Evaluate(textsJS(selector), &texts)); err != nil {
		return nil, eris.Wrapf(err, "browser: texts %s", selector)
	}
	return texts, nil
}

func (s *ChromeSession) Attributes(ctx context.Context, selector string) ([]map[string]string, error) {
	attrs := []map[string]string{}
	if err := s.run(ctx, chromedp.Evaluate(attributesJS(selector), &attrs)); err != nil {
		return nil, eris.Wrapf(err, "browser: attributes %s", selector)
	}
	return attrs, nil
}

func (s *ChromeSession) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	if err := s.run(ctx, chromedp.Evaluate(existsJS(selector), &found)); err != nil {
		return false, eris.Wrapf(err, "browser: exists %s", selector)
	}
	return found, nil
}

func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
	return eris.Wrapf(err, "browser: click %s", selector)
}

func (s *ChromeSession) ScrollBy(ctx context.Context, x, y float64) error {
	err := s.run(ctx, chromedp.Evaluate(scrollByJS(x, y), nil))
	return eris.Wrap(err, "browser: scroll")
}

func (s *ChromeSession) Close() error {
	if s.cancelCtx != nil {
		s.cancelCtx()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
	return nil
}

// JS expression builders. Selectors are quoted with strconv.Quote, which
// produces escapes valid in a JS string literal.

func textsJS(selector string) string {
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(e => e.textContent)`,
		strconv.Quote(selector))
}

func attributesJS(selector string) string {
	return fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(e => Object.fromEntries(Array.from(e.attributes).map(a => [a.name, a.value])))`,
		strconv.Quote(selector))
}

func existsJS(selector string) string {
	return fmt.Sprintf(`document.querySelector(%s) !== null`, strconv.Quote(selector))
}

func scrollByJS(x, y float64) string {
	return fmt.Sprintf(`window.scrollBy(%g, %g)`, x, y)
}
