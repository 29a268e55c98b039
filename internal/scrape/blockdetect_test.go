package scrape

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		body   string
		want   BlockType
	}{
		{name: "cloudflare ray", status: 403, header: http.Header{"Cf-Ray": {"abc"}}, want: BlockCloudflare},
		{name: "cloudflare server", status: 503, header: http.Header{"Server": {"cloudflare"}}, want: BlockCloudflare},
		{name: "challenge page", status: 200, body: "<html>Checking your browser before accessing</html>", want: BlockCloudflare},
		{name: "captcha wall", status: 200, body: `<html><div class="g-recaptcha"></div></html>`, want: BlockCaptcha},
		{name: "captcha text", status: 200, body: "<html><body>Please complete the reCAPTCHA to continue</body></html>", want: BlockCaptcha},
		{name: "noscript shell", status: 200, body: "<html><noscript>Enable JavaScript to continue</noscript></html>", want: BlockJSShell},
		{name: "spa root", status: 200, body: `<html><body><div id="root"></div><script src="/app.js"></script></body></html>`, want: BlockJSShell},
		{name: "normal page", status: 200, body: "<html><body><h1>Acme</h1><p>Welcome</p></body></html>", want: BlockNone},
		{
			name:   "large page with recaptcha form",
			status: 200,
			body:   "<html><body>" + strings.Repeat("<p>content</p>", 3000) + `<div class="g-recaptcha"></div></body></html>`,
			want:   BlockNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.header
			if h == nil {
				h = http.Header{}
			}
			assert.Equal(t, tt.want, DetectBlock(tt.status, h, []byte(tt.body)))
		})
	}
}
