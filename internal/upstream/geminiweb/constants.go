// Package geminiweb talks to the Gemini web app the way a browser
// does: cookie auth, form-encoded batchexecute calls, and the
// StreamGenerate RPC.
package geminiweb

import "regexp"

const (
	EndpointInit     = "https://gemini.google.com/app"
	EndpointGenerate = "https://gemini.google.com/_/BardChatUi/data/assistant.lamda.BardFrontendService/StreamGenerate"
)

const (
	cookiePSID   = "__Secure-1PSID"
	cookiePSIDTS = "__Secure-1PSIDTS"

	// DefaultUserAgent mirrors a current desktop Chrome.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

	// defaultBL is used when the page scrape yields no build label.
	defaultBL = "boq_assistant-bard-web-server_20240625.13_p0"
)

var (
	// reSNlM0e extracts the session token required as the "at" form
	// field on every RPC.
	reSNlM0e = regexp.MustCompile(`"SNlM0e":"([^"]+)"`)
	// reBL extracts the frontend build label ("cfb2h") sent as the bl
	// query parameter.
	reBL = regexp.MustCompile(`"cfb2h":"([^"]+)"`)
)

// apiHeaders are the headers the web app sends on StreamGenerate.
func apiHeaders() map[string]string {
	return map[string]string{
		"Content-Type":  "application/x-www-form-urlencoded;charset=utf-8",
		"Host":          "gemini.google.com",
		"Origin":        "https://gemini.google.com",
		"Referer":       "https://gemini.google.com/",
		"X-Same-Domain": "1",
	}
}
