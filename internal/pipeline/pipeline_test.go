package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/client-intel/internal/model"
	"github.com/sells-group/client-intel/internal/report"
	"github.com/sells-group/client-intel/internal/scrape"
	"github.com/sells-group/client-intel/internal/store"
	"github.com/sells-group/client-intel/internal/websearch"
)

const minimalPage = `<html><head><title>Example Domain</title></head>
<body><p>Write to hello@example.com</p></body></html>`

const wordpressPage = `<html><head><title>Example Domain</title>
<meta name="viewport" content="width=device-width">
<link rel="stylesheet" href="/wp-content/themes/x/style.css"></head>
<body><p>Write to hello@example.com</p></body></html>`

// stubFetcher serves fixed pages by URL and fails everything else.
type stubFetcher map[string]string

func (s stubFetcher) Fetch(_ context.Context, url string) (*scrape.Page, error) {
	html, ok := s[url]
	if !ok {
		return nil, &scrape.FetchError{URL: url, StatusCode: 404}
	}
	return &scrape.Page{URL: url, FinalURL: url, StatusCode: 200, HTML: html, Size: len(html)}, nil
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

// recordingStore captures what a save wrote.
type recordingStore struct {
	orgs       []model.Organization
	contacts   []model.Contact
	activities []model.Activity
	err        error
}

func (r *recordingStore) WithinUnit(_ context.Context, fn func(store.Writer) error) error { return fn(r) }
func (r *recordingStore) Migrate(context.Context) error                                  { return nil }
func (r *recordingStore) Close() error                                                   { return nil }

func (r *recordingStore) UpsertOrganization(_ context.Context, o *model.Organization) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.orgs = append(r.orgs, *o)
	return "org-1", nil
}

func (r *recordingStore) UpsertContact(_ context.Context, c *model.Contact) (string, error) {
	r.contacts = append(r.contacts, *c)
	return "contact-1", nil
}

func (r *recordingStore) InsertActivity(_ context.Context, a *model.Activity) (string, error) {
	r.activities = append(r.activities, *a)
	return "act-1", nil
}

func newTestAnalyzer(t *testing.T, svc Services) *Analyzer {
	t.Helper()
	a, err := New(svc, Config{})
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return a
}

func TestAnalyze_MinimalPage(t *testing.T) {
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}})

	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com"})
	require.NoError(t, err)

	assert.Equal(t, 50, intel.Scores.TechReadiness)
	assert.Equal(t, 70, intel.Scores.LeadScore)
	assert.Equal(t, "Unknown", intel.Scores.Budget)
	assert.Equal(t, []string{"hello@example.com"}, intel.Contact.Emails)
	assert.Equal(t, "example.com", intel.Company.Domain)
	assert.Equal(t, "Example Domain", intel.Company.Name)
	assert.NotNil(t, intel.Contact.Individuals)
	assert.Empty(t, intel.Market.Competitors)
	assert.Equal(t, 0, intel.OnlinePresence.GoogleResults)
	assert.Equal(t, intel.Opportunities, intel.Market.Opportunities)
}

func TestAnalyze_WordPressPage(t *testing.T) {
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": wordpressPage}})

	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, 60, intel.Scores.TechReadiness)
	assert.Equal(t, "Medium", intel.Scores.Budget)
	assert.Equal(t, "WordPress", intel.Technology.CMS)
}

func TestAnalyze_ExplicitNameAndOverride(t *testing.T) {
	fetcher := stubFetcher{"https://tjnowak.com/": `<html><head><title>Home</title></head><body></body></html>`}

	a := newTestAnalyzer(t, Services{Fetcher: fetcher, Overrides: report.NameOverrides{"tjnowak": "TJ Nowak Supply"}})
	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "tjnowak.com"})
	require.NoError(t, err)
	assert.Equal(t, "TJ Nowak Supply", intel.Company.Name)

	intel, err = a.Analyze(context.Background(), model.AnalysisRequest{URL: "tjnowak.com", CompanyName: "Nowak"})
	require.NoError(t, err)
	assert.Equal(t, "Nowak", intel.Company.Name)
}

func TestAnalyze_ValidationError(t *testing.T) {
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{}})

	_, err := a.Analyze(context.Background(), model.AnalysisRequest{})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, model.MsgURLRequired, ve.Message)
}

func TestAnalyze_FetchFailureIsFatal(t *testing.T) {
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{}})

	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "https://down.example"})
	assert.Nil(t, intel)
	var fe *scrape.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.StatusCode)
}

func TestAnalyze_UsesSearch(t *testing.T) {
	s := new(mockSearch)
	s.On("Search", mock.Anything, "Example Domain", 10).Return([]websearch.Result{
		{Title: "Example on Yelp", Link: "https://www.yelp.com/biz/example", Snippet: "Great"},
		{Title: "Example", Link: "https://www.facebook.com/example"},
	}, nil)
	s.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota"))

	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}, Search: s})
	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com"})
	require.NoError(t, err)

	assert.Equal(t, 2, intel.OnlinePresence.GoogleResults)
	require.Len(t, intel.OnlinePresence.Reviews, 1)
	assert.Equal(t, "Yelp", intel.OnlinePresence.Reviews[0].Platform)
	require.Len(t, intel.OnlinePresence.SocialProfiles, 1)
}

func TestAnalyze_SavesWhenRequested(t *testing.T) {
	rs := &recordingStore{}
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}, Store: rs})

	_, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com", SaveToCRM: true})
	require.NoError(t, err)

	require.Len(t, rs.orgs, 1)
	assert.Equal(t, "example.com", rs.orgs[0].Domain)
	require.Len(t, rs.contacts, 1)
	assert.Equal(t, "hello@example.com", rs.contacts[0].Email)
	assert.Equal(t, "org-1", rs.contacts[0].OrganizationID)
	require.Len(t, rs.activities, 1)
	assert.Equal(t, "contact-1", rs.activities[0].ContactID)
}

func TestAnalyze_SkipsSaveWhenNotRequested(t *testing.T) {
	rs := &recordingStore{}
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}, Store: rs})

	_, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com"})
	require.NoError(t, err)
	assert.Empty(t, rs.orgs)
}

func TestAnalyze_SaveFailureReturnsReport(t *testing.T) {
	rs := &recordingStore{err: errors.New("connection refused")}
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}, Store: rs})

	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com", SaveToCRM: true})
	require.NotNil(t, intel)
	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "upsert organization", pe.Op)
}

func TestAnalyze_SaveWithoutStore(t *testing.T) {
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}})

	intel, err := a.Analyze(context.Background(), model.AnalysisRequest{URL: "example.com", SaveToCRM: true})
	require.NotNil(t, intel)
	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestAnalyze_Cancelled(t *testing.T) {
	a := newTestAnalyzer(t, Services{Fetcher: stubFetcher{"https://example.com/": minimalPage}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, model.AnalysisRequest{URL: "example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RequiresFetcher(t *testing.T) {
	_, err := New(Services{}, Config{})
	assert.Error(t, err)
}
