package people

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/client-intel/internal/scrape"
	"github.com/sells-group/client-intel/internal/websearch"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*scrape.Page, error) {
	args := m.Called(ctx, url)
	if p := args.Get(0); p != nil {
		return p.(*scrape.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) Search(ctx context.Context, query string, num int) ([]websearch.Result, error) {
	args := m.Called(ctx, query, num)
	if r := args.Get(0); r != nil {
		return r.([]websearch.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func htmlPage(url, html string) *scrape.Page {
	return &scrape.Page{URL: url, FinalURL: url, StatusCode: 200, HTML: html}
}
