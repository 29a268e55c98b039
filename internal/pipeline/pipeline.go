// Package pipeline runs a full website analysis: fetch, extract, research,
// score, assemble and optionally persist.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/client-intel/internal/contact"
	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/llm"
	"github.com/sells-group/client-intel/internal/market"
	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/people"
	"github.com/sells-group/client-intel/internal/report"
	"github.com/sells-group/client-intel/internal/scoring"
	"github.com/sells-group/client-intel/internal/scrape"
	"github.com/sells-group/client-intel/internal/store"
	"github.com/sells-group/client-intel/internal/techprofile"
	"github.com/sells-group/client-intel/internal/websearch"
)

// ErrNoStore is the cause of a PersistenceError when saving was requested
// but no store is configured.
var ErrNoStore = errors.New("pipeline: no store configured")

// Services are the collaborators of an Analyzer. Only Fetcher is required;
// a nil field turns off the stage that uses it.
type Services struct {
	Fetcher   scrape.Fetcher
	Search    websearch.Client
	Generator llm.Generator
	Store     store.Store
	Overrides report.NameOverrides
	Matcher   *scrape.PathMatcher
}

// Config tunes the stages.
type Config struct {
	Crawl        people.Config
	SnippetChars int
}

// Analyzer runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Analyzer struct {
	svc    Services
	people *people.Discoverer
	market *market.Analyzer
	now    func() time.Time
}

// New creates an Analyzer.
func New(svc Services, cfg Config) (*Analyzer, error) {
	if svc.Fetcher == nil {
		return nil, eris.New("pipeline: fetcher is required")
	}
	return &Analyzer{
		svc:    svc,
		people: people.NewDiscoverer(svc.Fetcher, svc.Search, svc.Matcher, cfg.Crawl),
		market: market.NewAnalyzer(svc.Search, svc.Generator, cfg.SnippetChars),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Analyze runs every stage for req. Only validation and the top-level fetch
// can fail the analysis. When saving fails the report is still returned
// alongside a *store.PersistenceError.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.IntelligenceReport, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	log := zap.L().With(zap.String("url", req.URL))
	start := time.Now()
	log.Info("pipeline: starting analysis", zap.Bool("save", req.SaveToCRM))

	page, err := a.svc.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		log.Error("pipeline: fetch failed", zap.Error(err))
		return nil, err
	}
	doc, err := htmldoc.Parse(page.FinalURL, page.HTML)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: parse")
	}

	tech := techprofile.Profile(doc, techprofile.PageFacts{
		Secure:   page.Secure,
		Duration: page.Duration,
		Size:     page.Size,
	})
	contactProfile := contact.Extract(doc)
	name := report.ResolveCompanyName(req.CompanyName, doc, doc.Domain, a.svc.Overrides)
	log = log.With(zap.String("company", name), zap.String("domain", doc.Domain))

	var found people.Result
	var research market.Result
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found = a.people.Discover(gCtx, doc, name)
		return nil
	})
	g.Go(func() error {
		research = a.market.Analyze(gCtx, name, doc.Domain, page.HTML)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: analysis cancelled")
	}

	contactProfile.Individuals = found.Individuals
	opportunities := scoring.DeriveOpportunities(page.HTML, tech)
	research.Market.Opportunities = opportunities
	scores := scoring.Compute(tech, contactProfile, research.Market, research.Presence)

	intel := report.Assemble(report.Input{
		CompanyName:      name,
		Domain:           doc.Domain,
		Page:             page,
		Doc:              doc,
		Technology:       tech,
		Contact:          contactProfile,
		Market:           research.Market,
		Presence:         research.Presence,
		Opportunities:    opportunities,
		Scores:           scores,
		TeamPagesCrawled: found.PagesCrawled,
		Now:              a.now(),
	})

	log.Info("pipeline: analysis complete",
		zap.Int("lead_score", scores.LeadScore),
		zap.Int("tech_readiness", scores.TechReadiness),
		zap.Int("individuals", len(intel.Contact.Individuals)),
		zap.Duration("duration", time.Since(start)),
	)

	if req.SaveToCRM {
		if err := a.save(ctx, intel); err != nil {
			log.Error("pipeline: save failed", zap.Error(err))
			return intel, err
		}
	}
	return intel, nil
}

func (a *Analyzer) save(ctx context.Context, intel *model.IntelligenceReport) error {
	if a.svc.Store == nil {
		return &store.PersistenceError{Op: "save", Err: ErrNoStore}
	}
	recs := report.Project(intel)
	return store.Save(ctx, a.svc.Store, &recs)
}
