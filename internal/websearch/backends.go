package websearch

import (
	"context"

	"github.com/sells-group/client-intel/pkg/google"
	"github.com/sells-group/client-intel/pkg/jina"
)

// Google adapts the Programmable Search client.
type Google struct {
	client google.Client
}

// NewGoogle returns a Client backed by Google Programmable Search.
func NewGoogle(client google.Client) *Google {
	return &Google{client: client}
}

// Search implements Client.
func (g *Google) Search(ctx context.Context, query string, num int) ([]Result, error) {
	items, err := g.client.Search(ctx, query, num)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(items))
	for _, it := range items {
		out = append(out, Result{Title: it.Title, Snippet: it.Snippet, Link: it.Link, Date: it.Published})
	}
	return out, nil
}

// Jina adapts the Jina search client.
type Jina struct {
	client jina.Client
}

// NewJina returns a Client backed by Jina search.
func NewJina(client jina.Client) *Jina {
	return &Jina{client: client}
}

// Search implements Client.
func (j *Jina) Search(ctx context.Context, query string, num int) ([]Result, error) {
	resp, err := j.client.Search(ctx, query, jina.WithNum(num))
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(resp.Data))
	for _, d := range resp.Data {
		snippet := d.Description
		if snippet == "" {
			snippet = d.Content
		}
		out = append(out, Result{Title: d.Title, Snippet: snippet, Link: d.URL, Date: d.PublishedTime})
	}
	return out, nil
}
