// Package httpx holds HTTP plumbing shared by the API: origin validation,
// CORS wiring, and request middleware.
package httpx

import (
	"regexp"
	"strings"

	"github.com/rs/cors"
)

// previewOriginPattern matches ephemeral preview deployment origins
// (https://<slug>.vercel.app).
var previewOriginPattern = regexp.MustCompile(`^https://[\w-]+\.vercel\.app$`)

// OriginAllowed reports whether an origin may call the API. It is a pure
// predicate: explicit allowlist entries, preview deployment origins, and
// localhost during development all pass; everything else is denied.
func OriginAllowed(origin string, allowlist []string) bool {
	if origin == "" {
		return false
	}

	for _, allowed := range allowlist {
		if origin == allowed {
			return true
		}
	}

	if previewOriginPattern.MatchString(origin) {
		return true
	}

	if strings.HasPrefix(origin, "http://localhost:") {
		return true
	}

	return false
}

// NewCORS builds the CORS middleware from the origin predicate. Credentials
// are allowed, so wildcards are off the table and every origin is checked
// individually.
func NewCORS(allowlist []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(origin, allowlist)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Process-Time"},
		AllowCredentials: true,
	})
}
