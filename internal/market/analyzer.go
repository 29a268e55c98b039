// Package market builds the competitive and online-presence view of a company
// from web search, with an optional generated narrative.
package market

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/client-intel/internal/llm"
	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/websearch"
)

const (
	competitorQueries = 2
	maxCompetitors    = 5
	newsResults       = 5
	presenceResults   = 10
	defaultSnippet    = 2000
)

// Analyzer runs market research. Both search and generator may be nil, in
// which case the corresponding outputs are empty.
type Analyzer struct {
	search       websearch.Client
	generator    llm.Generator
	snippetChars int
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(search websearch.Client, generator llm.Generator, snippetChars int) *Analyzer {
	if snippetChars <= 0 {
		snippetChars = defaultSnippet
	}
	return &Analyzer{search: search, generator: generator, snippetChars: snippetChars}
}

// Result is the combined market analysis.
type Result struct {
	Market   model.MarketProfile
	Presence model.OnlinePresence
}

// Analyze runs every market lookup. It never fails.
func (a *Analyzer) Analyze(ctx context.Context, company, domain, html string) Result {
	return Result{
		Market: model.MarketProfile{
			Competitors:   a.FindCompetitors(ctx, company),
			RecentNews:    a.RecentNews(ctx, company, domain),
			Opportunities: model.NewOpportunityTaxonomy(),
			AIAnalysis:    a.Narrative(ctx, company, html),
		},
		Presence: a.OnlinePresence(ctx, company),
	}
}

// competitorTemplates are tried in order; only the first competitorQueries
// are issued.
var competitorTemplates = []string{
	`"%s" competitors`,
	`"%s" vs`,
	`alternatives to "%s"`,
	`"%s" industry competitors`,
}

// FindCompetitors extracts up to five competitor names from search results.
func (a *Analyzer) FindCompetitors(ctx context.Context, company string) []string {
	out := []string{}
	if a.search == nil || company == "" {
		return out
	}

	seen := map[string]bool{strings.ToLower(company): true}
	for _, tmpl := range competitorTemplates[:competitorQueries] {
		results, err := a.search.Search(ctx, fmt.Sprintf(tmpl, company), presenceResults)
		if err != nil {
			zap.L().Warn("market: competitor search failed", zap.String("company", company), zap.Error(err))
			continue
		}
		for _, r := range results {
			mentions := append(CompetitorMentions(r.Title), CompetitorMentions(r.Snippet)...)
			for _, name := range mentions {
				key := strings.ToLower(name)
				if seen[key] || strings.Contains(key, strings.ToLower(company)) {
					continue
				}
				seen[key] = true
				out = append(out, name)
				if len(out) == maxCompetitors {
					return out
				}
			}
		}
	}
	return out
}

// RecentNews returns up to five news results about the company.
func (a *Analyzer) RecentNews(ctx context.Context, company, domain string) []model.NewsItem {
	out := []model.NewsItem{}
	if a.search == nil || company == "" {
		return out
	}

	q := fmt.Sprintf(`"%s" OR site:%s news OR announcement OR update`, company, domain)
	results, err := a.search.Search(ctx, q, newsResults)
	if err != nil {
		zap.L().Warn("market: news search failed", zap.String("company", company), zap.Error(err))
		return out
	}
	for i, r := range results {
		if i == newsResults {
			break
		}
		out = append(out, model.NewsItem{Title: r.Title, Snippet: r.Snippet, Link: r.Link, Date: r.Date})
	}
	return out
}

// Narrative asks the generator for a qualitative read of the site. Returns ""
// when no generator is configured or the call fails.
func (a *Analyzer) Narrative(ctx context.Context, company, html string) string {
	if a.generator == nil {
		return ""
	}
	text, err := a.generator.Generate(ctx, narrativePrompt(company, truncate(html, a.snippetChars)))
	if err != nil {
		zap.L().Warn("market: narrative generation failed", zap.String("company", company), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

func narrativePrompt(company, snippet string) string {
	return fmt.Sprintf(`You are a digital transformation consultant reviewing the website of %s.

Website content (truncated):
%s

Provide:
1. The top 3 AI automation opportunities for this business
2. Likely competitors
3. Relevant industry trends
4. The probable target audience

Keep the answer concise and specific to this business.`, company, snippet)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
