package market

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/client-intel/internal/model"
)

// platform maps a link substring to its display name.
type platform struct {
	marker string
	name   string
}

var (
	reviewSites = []platform{
		{"yelp.com", "Yelp"},
		{"google.com/maps", "Google Maps"},
		{"maps.google", "Google Maps"},
		{"trustpilot.com", "Trustpilot"},
		{"bbb.org", "BBB"},
	}
	socialSites = []platform{
		{"facebook.com", "Facebook"},
		{"linkedin.com", "LinkedIn"},
		{"twitter.com", "Twitter"},
		{"//x.com/", "Twitter"},
		{"instagram.com", "Instagram"},
	}
	directorySites = []platform{
		{"yellowpages.com", "Yellow Pages"},
		{"whitepages.com", "Whitepages"},
		{"manta.com", "Manta"},
		{"dnb.com", "D&B"},
	}
)

// OnlinePresence classifies the results of a bare brand-name search.
func (a *Analyzer) OnlinePresence(ctx context.Context, company string) model.OnlinePresence {
	p := model.NewOnlinePresence()
	if a.search == nil || company == "" {
		return p
	}

	results, err := a.search.Search(ctx, company, presenceResults)
	if err != nil {
		zap.L().Warn("market: presence search failed", zap.String("company", company), zap.Error(err))
		return p
	}

	p.GoogleResults = len(results)
	for _, r := range results {
		link := strings.ToLower(r.Link)
		if name := match(link, reviewSites); name != "" {
			p.Reviews = append(p.Reviews, model.ReviewHit{Platform: name, URL: r.Link, Title: r.Title, Snippet: r.Snippet})
		}
		if name := match(link, socialSites); name != "" {
			p.SocialProfiles = append(p.SocialProfiles, model.ProfileHit{Platform: name, URL: r.Link})
		}
		if name := match(link, directorySites); name != "" {
			p.Directories = append(p.Directories, model.ProfileHit{Platform: name, URL: r.Link})
		}
	}
	return p
}

func match(link string, sites []platform) string {
	for _, s := range sites {
		if strings.Contains(link, s.marker) {
			return s.name
		}
	}
	return ""
}
