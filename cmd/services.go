package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/client-intel/internal/config"
	"github.com/sells-group/client-intel/internal/llm"
	"github.com/sells-group/client-intel/internal/people"
	"github.com/sells-group/client-intel/internal/pipeline"
	"github.com/sells-group/client-intel/internal/report"
	"github.com/sells-group/client-intel/internal/resilience"
	"github.com/sells-group/client-intel/internal/scrape"
	"github.com/sells-group/client-intel/internal/store"
	"github.com/sells-group/client-intel/internal/websearch"
	"github.com/sells-group/client-intel/pkg/anthropic"
	"github.com/sells-group/client-intel/pkg/gemini"
	"github.com/sells-group/client-intel/pkg/google"
	"github.com/sells-group/client-intel/pkg/jina"
	sfpkg "github.com/sells-group/client-intel/pkg/salesforce"
)

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

// appEnv holds the analyzer and everything that needs closing.
type appEnv struct {
	Analyzer *pipeline.Analyzer
	Store    store.Store
	closers  []func() error
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
}

// initApp builds every configured service. Unconfigured optional services
// stay nil and their stages degrade to empty results.
func initApp(ctx context.Context, c *config.Config) (*appEnv, error) {
	env := &appEnv{}

	search, err := initSearch(ctx, c.Search)
	if err != nil {
		return nil, err
	}

	gen, closeGen, err := initGenerator(ctx, c.LLM)
	if err != nil {
		return nil, err
	}
	if closeGen != nil {
		env.closers = append(env.closers, closeGen)
	}

	st, err := initStore(ctx, c)
	if err != nil {
		env.Close()
		return nil, err
	}
	if st != nil {
		env.Store = st
		env.closers = append(env.closers, st.Close)
	}

	overrides, err := report.NewNameOverrides(c.Naming.Overrides, c.Naming.OverridesFile)
	if err != nil {
		env.Close()
		return nil, err
	}

	svc := pipeline.Services{
		Fetcher:   initFetcher(c.Fetch),
		Overrides: overrides,
		Matcher:   scrape.NewPathMatcher(c.Crawl.ExcludePaths),
	}
	// Assign interfaces only when set so nil checks downstream see a nil
	// interface rather than a typed nil.
	if search != nil {
		svc.Search = search
	}
	if gen != nil {
		svc.Generator = gen
	}
	if st != nil {
		svc.Store = st
	}

	a, err := pipeline.New(svc, pipeline.Config{
		Crawl: people.Config{
			MaxPages:    c.Crawl.MaxTeamPages,
			Concurrency: c.Crawl.Concurrency,
		},
		SnippetChars: c.LLM.SnippetChars,
	})
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Analyzer = a

	zap.L().Info("services initialized",
		zap.String("search", c.Search.Provider),
		zap.String("llm", c.LLM.Provider),
		zap.String("store", c.Store.Driver),
		zap.Bool("render_js", c.Fetch.RenderJS),
	)
	return env, nil
}

func initFetcher(c config.FetchConfig) scrape.Fetcher {
	opts := scrape.Options{
		UserAgent:    c.UserAgent,
		Timeout:      secs(c.TimeoutSecs),
		MaxBodyBytes: c.MaxBodyBytes,
	}
	if c.RenderJS {
		opts.Renderer = scrape.NewChromeRenderer(secs(c.RenderTimeoutSecs), c.UserAgent)
	}
	return scrape.NewHTTPFetcher(opts)
}

// initSearch returns nil when no provider is selected.
func initSearch(ctx context.Context, c config.SearchConfig) (*websearch.Guard, error) {
	var backend websearch.Client
	switch c.Provider {
	case "":
		return nil, nil
	case config.SearchGoogle:
		gc, err := google.NewClient(ctx, c.GoogleAPIKey, c.GoogleCX)
		if err != nil {
			return nil, eris.Wrap(err, "init google search")
		}
		backend = websearch.NewGoogle(gc)
	case config.SearchJina:
		var opts []jina.Option
		if c.JinaBaseURL != "" {
			opts = append(opts, jina.WithBaseURL(c.JinaBaseURL))
		}
		backend = websearch.NewJina(jina.NewClient(c.JinaKey, opts...))
	default:
		return nil, eris.Errorf("unknown search provider %q", c.Provider)
	}
	return websearch.NewGuard(backend, websearch.GuardConfig{
		RatePerSec: c.RatePerSec,
		Timeout:    secs(c.TimeoutSecs),
		Breaker:    resilience.NewCircuitConfig("search_"+c.Provider, c.BreakerFailures, c.BreakerResetSecs),
	}), nil
}

// initGenerator returns a nil generator when no provider is selected.
func initGenerator(ctx context.Context, c config.LLMConfig) (llm.Generator, func() error, error) {
	switch c.Provider {
	case "":
		return nil, nil, nil
	case config.LLMAnthropic:
		client := anthropic.NewClient(c.AnthropicKey)
		return llm.NewAnthropic(client, c.AnthropicModel, c.MaxTokens, secs(c.TimeoutSecs)), nil, nil
	case config.LLMGemini:
		client, err := gemini.NewClient(ctx, c.GeminiKey, c.GeminiModel)
		if err != nil {
			return nil, nil, eris.Wrap(err, "init gemini")
		}
		return llm.NewGemini(client, secs(c.TimeoutSecs)), client.Close, nil
	default:
		return nil, nil, eris.Errorf("unknown llm provider %q", c.Provider)
	}
}

// initStore returns nil when no driver is selected.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Driver {
	case "":
		return nil, nil
	case config.StoreSQLite:
		return store.NewSQLite(c.Store.SQLitePath)
	case config.StorePostgres:
		return store.NewPostgres(ctx, c.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		})
	case config.StoreSalesforce:
		pem, err := os.ReadFile(c.Salesforce.KeyPath)
		if err != nil {
			return nil, eris.Wrap(err, "read salesforce JWT private key")
		}
		client, err := sfpkg.Connect(sfpkg.JWTConfig{
			LoginURL:      c.Salesforce.LoginURL,
			Username:      c.Salesforce.Username,
			ClientID:      c.Salesforce.ClientID,
			PrivateKeyPEM: pem,
		}, sfpkg.WithRateLimit(c.Salesforce.RatePerSec))
		if err != nil {
			return nil, err
		}
		return store.NewSalesforce(client), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
}
