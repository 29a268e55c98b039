// Package google wraps the Google Programmable Search (Custom Search JSON)
// API.
package google

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxNum is the largest page size the API accepts.
const maxNum = 10

// Client runs Programmable Search queries.
type Client interface {
	Search(ctx context.Context, query string, num int) ([]Item, error)
}

// Item is one search result.
type Item struct {
	Title   string
	Snippet string
	Link    string
	// Published is the first publish or update date found in pagemap metatags.
	Published string
}

// Option configures the client.
type Option func(*settings)

type settings struct {
	endpoint string
	http     *http.Client
}

// WithEndpoint overrides the API base URL (for testing).
func WithEndpoint(url string) Option {
	return func(s *settings) {
		s.endpoint = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.http = hc
	}
}

type cseClient struct {
	svc *customsearch.Service
	cx  string
}

// NewClient creates a Programmable Search client for the engine cx.
func NewClient(ctx context.Context, apiKey, cx string, opts ...Option) (Client, error) {
	if apiKey == "" || cx == "" {
		return nil, eris.New("google: api key and cx are required")
	}
	var s settings
	for _, o := range opts {
		o(&s)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if s.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(s.endpoint))
	}
	if s.http != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(s.http))
	}

	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "google: create customsearch service")
	}
	return &cseClient{svc: svc, cx: cx}, nil
}

func (c *cseClient) Search(ctx context.Context, query string, num int) ([]Item, error) {
	if num <= 0 || num > maxNum {
		num = maxNum
	}
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(int64(num)).Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrapf(err, "google: search %q", query)
	}

	items := make([]Item, 0, len(resp.Items))
	for _, r := range resp.Items {
		items = append(items, Item{
			Title:     r.Title,
			Snippet:   r.Snippet,
			Link:      r.Link,
			Published: publishedDate(r.Pagemap),
		})
	}
	return items, nil
}

// dateTags are checked in order.
var dateTags = []string{"article:published_time", "og:updated_time", "date", "pubdate"}

type pagemap struct {
	Metatags []map[string]any `json:"metatags"`
}

func publishedDate(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var pm pagemap
	if err := json.Unmarshal(raw, &pm); err != nil {
		return ""
	}
	for _, tags := range pm.Metatags {
		for _, k := range dateTags {
			if v, ok := tags[k].(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}
