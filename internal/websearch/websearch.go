// Package websearch abstracts keyed web search backends.
package websearch

import (
	"context"
	"errors"
)

// Result is one organic search hit.
type Result struct {
	Title   string
	Snippet string
	Link    string
	// Date is the publish date from page metadata, when the backend has one.
	Date string
}

// Client runs a web search and returns at most num results.
type Client interface {
	Search(ctx context.Context, query string, num int) ([]Result, error)
}

// ErrUnavailable is returned by guards whose circuit is open.
var ErrUnavailable = errors.New("websearch: unavailable")
