package middleware

import (
	"net/http"
)

// SecurityHeaders adds standard security headers to every response. This API
// serves JSON and provider-facing XML only, so the policy is strict.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")

		// Remove headers that leak server information
		w.Header().Del("X-Powered-By")
		w.Header().Del("Server")

		next.ServeHTTP(w, r)
	})
}
