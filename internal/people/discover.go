// Package people discovers named individuals associated with a company from
// its website and, as a fallback, from web search.
package people

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/client-intel/internal/htmldoc"
	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/scrape"
	"github.com/sells-group/client-intel/internal/websearch"
)

// SourceLinkedInSearch tags individuals found through the search fallback.
const SourceLinkedInSearch = "LinkedIn Search"

const (
	defaultMaxPages    = 5
	defaultConcurrency = 5
	minIndividuals     = 2
	searchResults      = 3
)

// Config tunes a Discoverer.
type Config struct {
	MaxPages    int
	Concurrency int
}

// Discoverer finds people on a company's team pages. Search is optional.
type Discoverer struct {
	fetcher scrape.Fetcher
	search  websearch.Client
	matcher *scrape.PathMatcher
	cfg     Config
}

// NewDiscoverer creates a Discoverer. search and matcher may be nil.
func NewDiscoverer(fetcher scrape.Fetcher, search websearch.Client, matcher *scrape.PathMatcher, cfg Config) *Discoverer {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Discoverer{fetcher: fetcher, search: search, matcher: matcher, cfg: cfg}
}

// Result is the outcome of discovery.
type Result struct {
	Individuals  []model.Individual
	PagesCrawled int
}

// Discover never fails: page and search errors are logged and skipped.
func (d *Discoverer) Discover(ctx context.Context, doc *htmldoc.Document, company string) Result {
	log := zap.L().With(zap.String("domain", doc.Domain))
	reg := newRegistry()

	links := Prioritize(TeamLinks(doc, d.matcher), d.cfg.MaxPages)
	log.Debug("people: team links", zap.Strings("links", links))

	for _, ind := range FromLinkedInAnchors(doc) {
		reg.add(ind)
	}

	pages, crawled := d.crawl(ctx, links)
	for _, found := range pages {
		for _, ind := range found {
			reg.add(ind)
		}
	}

	if reg.len() < minIndividuals && d.search != nil && company != "" {
		for _, ind := range d.searchFallback(ctx, company) {
			reg.add(ind)
		}
	}

	out := reg.list()
	for i := range out {
		if out[i].Email == "" {
			out[i].PotentialEmails = PotentialEmails(out[i].Name, doc.Domain)
		}
	}

	log.Info("people: discovery complete",
		zap.Int("individuals", len(out)),
		zap.Int("pages_crawled", crawled),
	)
	return Result{Individuals: out, PagesCrawled: crawled}
}

// crawl fetches links concurrently and returns the people found on each, in
// link order, so later merging is deterministic.
func (d *Discoverer) crawl(ctx context.Context, links []string) ([][]model.Individual, int) {
	results := make([][]model.Individual, len(links))
	ok := make([]bool, len(links))

	g := new(errgroup.Group)
	g.SetLimit(d.cfg.Concurrency)
	for i, link := range links {
		g.Go(func() error {
			page, err := d.fetcher.Fetch(ctx, link)
			if err != nil {
				zap.L().Warn("people: team page fetch failed", zap.String("url", link), zap.Error(err))
				return nil
			}
			doc, err := htmldoc.Parse(page.FinalURL, page.HTML)
			if err != nil {
				zap.L().Warn("people: team page parse failed", zap.String("url", link), zap.Error(err))
				return nil
			}
			results[i] = FromPage(doc)
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	crawled := 0
	for _, v := range ok {
		if v {
			crawled++
		}
	}
	return results, crawled
}

// searchTitleRe splits "Jane Smith - CEO - Acme | LinkedIn" into name and
// title.
var searchTitleRe = regexp.MustCompile(`^(` + nameWord + `(?:\s+` + nameWord + `){1,2})\s*[-–—|]\s*([^-–—|]+)`)

func (d *Discoverer) searchFallback(ctx context.Context, company string) []model.Individual {
	query := fmt.Sprintf(`"%s" CEO OR President OR Owner site:linkedin.com`, company)
	results, err := d.search.Search(ctx, query, searchResults)
	if err != nil {
		zap.L().Warn("people: linkedin search failed", zap.String("company", company), zap.Error(err))
		return nil
	}

	var out []model.Individual
	for _, r := range results {
		ind, ok := ParseSearchTitle(r.Title)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(r.Link), linkedInProfile) {
			ind.LinkedIn = r.Link
		}
		out = append(out, ind)
	}
	return out
}

// ParseSearchTitle reads a person from a "Name – Title" search result title.
func ParseSearchTitle(title string) (model.Individual, bool) {
	m := searchTitleRe.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil || !Accept(m[1]) {
		return model.Individual{}, false
	}
	role := trimTitle(m[2])
	if role == "" || strings.EqualFold(role, "LinkedIn") {
		return model.Individual{}, false
	}
	return model.Individual{Name: m[1], Title: role, Source: SourceLinkedInSearch}, true
}

// registry keeps individuals in insertion order, unique by exact name.
type registry struct {
	seen  map[string]bool
	items []model.Individual
}

func newRegistry() *registry {
	return &registry{seen: map[string]bool{}}
}

func (r *registry) add(ind model.Individual) bool {
	if ind.Name == "" || r.seen[ind.Name] {
		return false
	}
	r.seen[ind.Name] = true
	r.items = append(r.items, ind)
	return true
}

func (r *registry) len() int { return len(r.items) }

func (r *registry) list() []model.Individual {
	out := make([]model.Individual, len(r.items))
	copy(out, r.items)
	return out
}
