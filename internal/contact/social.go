package contact

import (
	"strings"

	"github.com/sells-group/client-intel/internal/htmldoc"
)

// platforms maps a social platform key to the host fragment identifying it.
var platforms = []struct {
	key  string
	host string
}{
	{"facebook", "facebook.com"},
	{"twitter", "twitter.com"},
	{"linkedin", "linkedin.com"},
	{"instagram", "instagram.com"},
	{"youtube", "youtube.com"},
	{"tiktok", "tiktok.com"},
}

var shareMarkers = []string{"sharer", "/share", "intent/tweet", "sharearticle"}

// Social maps platform to profile URL. The first link per platform wins.
func Social(doc *htmldoc.Document) map[string]string {
	out := map[string]string{}
	for _, a := range doc.Anchors() {
		lower := strings.ToLower(a.Href)
		if isShareLink(lower) {
			continue
		}
		for _, p := range platforms {
			if _, ok := out[p.key]; ok {
				continue
			}
			if strings.Contains(lower, p.host) {
				out[p.key] = a.Href
			}
		}
	}
	return out
}

func isShareLink(lowerHref string) bool {
	for _, m := range shareMarkers {
		if strings.Contains(lowerHref, m) {
			return true
		}
	}
	return false
}
