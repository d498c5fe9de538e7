package middleware

import (
	"net/http"
	"slices"
	"strings"
)

var staticAssets = []string{
	"/favicon.svg",
	"/og-image.svg",
}

// CacheControl sets Cache-Control by path:
//   - static assets: 1 year, immutable
//   - robots.txt: 1 day
//   - /contact: private, no-store (per-visitor form state)
//   - API: 1 minute with revalidation
//   - health checks and non-GET requests: no-store
//   - other HTML pages: 5 minutes with revalidation
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cachePolicy(r))
		next.ServeHTTP(w, r)
	})
}

func cachePolicy(r *http.Request) string {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return "no-store"
	}

	path := r.URL.Path
	switch {
	case slices.Contains(staticAssets, path):
		return "public, max-age=31536000, immutable"
	case path == "/robots.txt":
		return "public, max-age=86400"
	case path == "/contact" || strings.HasPrefix(path, "/contact/"):
		return "private, no-store"
	case path == "/healthz":
		return "no-store"
	case strings.HasPrefix(path, "/api/"):
		return "public, max-age=60, must-revalidate"
	default:
		return "public, max-age=300, must-revalidate"
	}
}
