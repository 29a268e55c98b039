// Package htmldoc parses fetched HTML into a queryable document.
package htmldoc

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// Document is a parsed page plus its raw markup. Parsing is tolerant of
// malformed HTML.
type Document struct {
	Raw    string
	URL    *url.URL
	Domain string

	doc *goquery.Document
}

// Anchor is a link found in a document.
type Anchor struct {
	Href string
	Text string
	Sel  *goquery.Selection
}

// Parse builds a Document for html served from pageURL.
func Parse(pageURL, raw string) (*Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrap(err, "htmldoc: parse url")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, eris.Wrap(err, "htmldoc: parse html")
	}
	return &Document{
		Raw:    raw,
		URL:    u,
		Domain: Domain(u.Hostname()),
		doc:    doc,
	}, nil
}

// Domain lowercases host and strips a leading "www.".
func Domain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// Find runs a CSS selector (including :contains) against the document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Title returns the trimmed <title> text.
func (d *Document) Title() string {
	return Clean(d.doc.Find("title").First().Text())
}

// Meta returns the content of <meta name="...">, matched case-insensitively.
func (d *Document) Meta(name string) string {
	var out string
	d.doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(s.AttrOr("name", ""), name) {
			out = strings.TrimSpace(s.AttrOr("content", ""))
			return false
		}
		return true
	})
	return out
}

// MetaProperty returns the content of <meta property="..."> (Open Graph).
func (d *Document) MetaProperty(prop string) string {
	return strings.TrimSpace(d.doc.Find(`meta[property="` + prop + `"]`).First().AttrOr("content", ""))
}

// Anchors returns every <a href> in document order.
func (d *Document) Anchors() []Anchor {
	var out []Anchor
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		out = append(out, Anchor{
			Href: strings.TrimSpace(s.AttrOr("href", "")),
			Text: Clean(s.Text()),
			Sel:  s,
		})
	})
	return out
}

// Text returns the visible text of the body with block boundaries kept as
// newlines. Script and style content is skipped.
func (d *Document) Text() string {
	return NodeText(d.doc.Find("body"))
}

// Resolve turns href into an absolute URL relative to the document.
func (d *Document) Resolve(href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, eris.Wrap(err, "htmldoc: resolve")
	}
	return d.URL.ResolveReference(ref), nil
}

// SameSite reports whether u points at the document's domain.
func (d *Document) SameSite(u *url.URL) bool {
	return Domain(u.Hostname()) == d.Domain
}

// JSONLD decodes every application/ld+json block. Arrays and @graph
// containers are flattened into individual objects; invalid blocks are skipped.
func (d *Document) JSONLD() []map[string]any {
	var out []map[string]any
	d.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		out = append(out, flattenLD(v)...)
	})
	return out
}

func flattenLD(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, item := range t {
			out = append(out, flattenLD(item)...)
		}
		return out
	case map[string]any:
		out := []map[string]any{t}
		if graph, ok := t["@graph"]; ok {
			out = append(out, flattenLD(graph)...)
		}
		return out
	}
	return nil
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
	"tr": true, "td": true, "th": true, "table": true, "address": true,
	"figcaption": true, "blockquote": true, "dt": true, "dd": true,
}

// NodeText returns the text of a selection, separating block-level elements
// with newlines and collapsing runs of whitespace within a line.
func NodeText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = Clean(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" || n.Data == "noscript" || n.Data == "template" {
			return
		}
	}
	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// Clean collapses internal whitespace and trims.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
