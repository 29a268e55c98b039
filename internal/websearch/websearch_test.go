package websearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/client-intel/internal/resilience"
	"github.com/sells-group/client-intel/pkg/google"
	googlemocks "github.com/sells-group/client-intel/pkg/google/mocks"
	"github.com/sells-group/client-intel/pkg/jina"
)

type stubJina struct {
	resp *jina.SearchResponse
	err  error
	opts int
}

func (s *stubJina) Search(_ context.Context, _ string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	s.opts = len(opts)
	return s.resp, s.err
}

type countingClient struct {
	calls int
	err   error
	sawDL bool
}

func (c *countingClient) Search(ctx context.Context, _ string, _ int) ([]Result, error) {
	c.calls++
	_, c.sawDL = ctx.Deadline()
	if c.err != nil {
		return nil, c.err
	}
	return []Result{{Title: "hit"}}, nil
}

func TestGoogle_Search(t *testing.T) {
	m := googlemocks.NewMockClient(t)
	m.On("Search", mock.Anything, "acme", 10).Return([]google.Item{
		{Title: "Acme", Snippet: "s", Link: "https://acme.com", Published: "2024-01-01"},
	}, nil)

	got, err := NewGoogle(m).Search(context.Background(), "acme", 10)
	require.NoError(t, err)
	assert.Equal(t, []Result{{Title: "Acme", Snippet: "s", Link: "https://acme.com", Date: "2024-01-01"}}, got)
}

func TestGoogle_SearchError(t *testing.T) {
	m := googlemocks.NewMockClient(t)
	m.On("Search", mock.Anything, "acme", 3).Return(nil, errors.New("quota"))

	_, err := NewGoogle(m).Search(context.Background(), "acme", 3)
	assert.Error(t, err)
}

func TestJina_Search(t *testing.T) {
	s := &stubJina{resp: &jina.SearchResponse{Data: []jina.SearchResult{
		{Title: "A", URL: "https://a.com", Description: "desc"},
		{Title: "B", URL: "https://b.com", Content: "body"},
	}}}
	got, err := NewJina(s).Search(context.Background(), "q", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "desc", got[0].Snippet)
	assert.Equal(t, "body", got[1].Snippet)
	assert.Equal(t, 1, s.opts)
}

func TestGuard_PassesThroughWithTimeout(t *testing.T) {
	c := &countingClient{}
	g := NewGuard(c, GuardConfig{Timeout: time.Second})

	got, err := g.Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, c.sawDL)
}

func TestGuard_OpensCircuit(t *testing.T) {
	c := &countingClient{err: errors.New("429 quota exceeded")}
	g := NewGuard(c, GuardConfig{Breaker: resilience.CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Minute}})

	for range 2 {
		_, err := g.Search(context.Background(), "q", 5)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	_, err := g.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, c.calls)
}

func TestGuard_RateLimitHonorsContext(t *testing.T) {
	c := &countingClient{}
	g := NewGuard(c, GuardConfig{RatePerSec: 0.001})

	_, err := g.Search(context.Background(), "q", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = g.Search(ctx, "q", 1)
	require.Error(t, err)
	assert.Equal(t, 1, c.calls)
}
