// Package scrape retrieves web pages for analysis.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Page is a fetched HTML document.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	HTML       string
	Secure     bool
	Duration   time.Duration
	Size       int
	Blocked    bool
	BlockType  BlockType
	Rendered   bool
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// FetchError is returned when the server answers with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %s returned status %d", e.URL, e.StatusCode)
}

// NetworkError is returned when the request never produced a response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch: %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Options configures an HTTPFetcher.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// Renderer, when set, re-renders pages that look like JavaScript shells.
	Renderer Renderer
}

const (
	defaultUserAgent    = "Mozilla/5.0 (compatible; ClientIntelBot/1.0; +https://sellsadvisors.com/bot)"
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 2 * 1024 * 1024
)

// HTTPFetcher fetches pages with net/http. It never retries.
type HTTPFetcher struct {
	client   *http.Client
	ua       string
	maxBody  int64
	renderer Renderer
}

// NewHTTPFetcher creates an HTTPFetcher, filling zero options with defaults.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		ua:       opts.UserAgent,
		maxBody:  opts.MaxBodyBytes,
		renderer: opts.Renderer,
	}
}

// Fetch issues a single GET and returns the page body.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: targetURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, &NetworkError{URL: targetURL, Err: err}
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	page := &Page{
		URL:        targetURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       decodeBody(body, resp.Header.Get("Content-Type")),
		Secure:     resp.TLS != nil || resp.Request.URL.Scheme == "https",
		Duration:   elapsed,
		Size:       len(body),
	}

	page.BlockType = DetectBlock(resp.StatusCode, resp.Header, body)
	page.Blocked = page.BlockType != BlockNone
	if page.Blocked {
		zap.L().Warn("fetch: page looks blocked",
			zap.String("url", targetURL),
			zap.String("block_type", string(page.BlockType)),
		)
	}

	if page.BlockType == BlockJSShell && f.renderer != nil {
		rendered, rerr := f.renderer.Render(ctx, page.FinalURL)
		if rerr != nil {
			zap.L().Warn("fetch: render failed, keeping static html",
				zap.String("url", targetURL), zap.Error(rerr))
		} else if len(rendered) > len(page.HTML) {
			page.HTML = rendered
			page.Size = len(rendered)
			page.Rendered = true
		}
	}

	return page, nil
}

// decodeBody converts body to UTF-8 using the Content-Type header or a
// <meta charset> prescan. Undecodable bodies are returned as-is.
func decodeBody(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
