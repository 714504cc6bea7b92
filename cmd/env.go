package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/browser"
	"github.com/sells-group/trustlens/internal/evaluate"
	"github.com/sells-group/trustlens/internal/extractor"
	"github.com/sells-group/trustlens/internal/insight"
	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/internal/navigator"
	"github.com/sells-group/trustlens/internal/pipeline"
	"github.com/sells-group/trustlens/internal/store"
	"github.com/sells-group/trustlens/pkg/anthropic"
)

// runEnv bundles the wired components for one command invocation.
type runEnv struct {
	Store     store.Store
	Navigator *navigator.Navigator
	Extractor *extractor.Extractor
	Analyzer  *insight.Analyzer
	Evaluator *evaluate.Evaluator
	Pipeline  *pipeline.Pipeline

	session *browser.ChromeSession
}

// openStore opens the configured backend and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		st, err = store.NewSQLite(cfg.Store.SQLitePath)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// newEnv wires the store plus the analysis components. The browser
// session is only started when the command actually scrapes.
func newEnv(ctx context.Context, withBrowser bool) (*runEnv, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	client := anthropic.NewClient(cfg.Anthropic.Key)
	env := &runEnv{
		Store:     st,
		Extractor: extractor.New(client, nil, cfg.Anthropic.VisionModel, cfg.Extract),
		Analyzer:  insight.New(client, cfg.Anthropic.TextModel, cfg.Analyze),
		Evaluator: evaluate.New(client, cfg.Anthropic.TextModel),
	}

	if withBrowser {
		profile, profErr := navigator.LoadProfile(cfg.Scrape.SelectorProfile)
		if profErr != nil {
			st.Close()
			return nil, profErr
		}
		session, sessErr := browser.NewChrome(ctx, cfg.Browser)
		if sessErr != nil {
			st.Close()
			return nil, eris.Wrap(sessErr, "cmd: start browser")
		}
		env.session = session
		env.Navigator = navigator.New(session, profile, cfg.Browser, cfg.Scrape)
	}

	env.Pipeline = pipeline.New(st, env.Navigator, env.Extractor, env.Analyzer, env.Evaluator)
	return env, nil
}

func (e *runEnv) Close() {
	if e.session != nil {
		if err := e.session.Close(); err != nil {
			zap.L().Warn("cmd: close browser", zap.Error(err))
		}
	}
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("cmd: close store", zap.Error(err))
	}
}

// resolveProduct accepts either a product URL or a product ID and
// returns the stored record.
func resolveProduct(ctx context.Context, st store.Store, arg string) (*model.Product, error) {
	if strings.Contains(arg, "://") {
		p, err := st.FindProductByURL(ctx, arg)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, eris.Errorf("cmd: no product scraped for %s", arg)
		}
		return p, nil
	}
	return st.GetProduct(ctx, arg)
}
