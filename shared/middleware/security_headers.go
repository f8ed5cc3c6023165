package middleware

import (
	"net/http"
	"strings"
)

// FrameAncestorsCSP builds a CSP that lets only the given origins embed the page.
func FrameAncestorsCSP(ancestors []string) string {
	if len(ancestors) == 0 {
		return "frame-ancestors 'self'"
	}
	return "frame-ancestors 'self' " + strings.Join(ancestors, " ")
}

// SecurityHeadersWithCSP adds security headers with custom Content-Security-Policy
// isHTTPS: if true, adds Strict-Transport-Security header
// csp: Content-Security-Policy value (if empty, no CSP header is set)
// The previewer is embedded by its host, so framing is governed by the CSP frame-ancestors
// directive instead of X-Frame-Options.
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()

			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}

			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContentSandbox sets the headers of an embedded attachment response. sandboxCSP is the
// sandbox directive of the attachment's policy, empty for unrestricted content.
func ContentSandbox(w http.ResponseWriter, sandboxCSP string) {
	headers := w.Header()
	headers.Set("X-Frame-Options", "SAMEORIGIN")
	headers.Set("Cache-Control", "no-store")
	if sandboxCSP == "" {
		headers.Set("Content-Security-Policy", "frame-ancestors 'self'")
		return
	}
	headers.Set("Content-Security-Policy", sandboxCSP+"; frame-ancestors 'self'")
}
