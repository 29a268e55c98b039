package scrape

import (
	"net/http"
	"regexp"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// spaRootRe matches an empty single-page-app mount point.
var spaRootRe = regexp.MustCompile(`(?i)<div id="(?:root|app|__next|__nuxt)"\s*>\s*</div>`)

// DetectBlock classifies a response as an anti-bot wall or an unrendered
// JavaScript shell. Blocked pages are still analyzed; the result only
// annotates the page.
func DetectBlock(status int, header http.Header, body []byte) BlockType {
	if status == http.StatusForbidden || status == http.StatusServiceUnavailable {
		if header.Get("cf-ray") != "" || header.Get("cf-cache-status") != "" ||
			strings.EqualFold(header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge") {
		return BlockCloudflare
	}

	// A captcha widget on a small page is a wall; on a large page it is
	// usually just a contact form.
	if len(body) < 20000 && (strings.Contains(lower, "g-recaptcha") ||
		strings.Contains(lower, "h-captcha") ||
		strings.Contains(lower, "complete the captcha") ||
		strings.Contains(lower, "complete the recaptcha")) {
		return BlockCaptcha
	}

	if len(body) < 4000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return BlockJSShell
		}
		if spaRootRe.Match(body) {
			return BlockJSShell
		}
	}

	return BlockNone
}
