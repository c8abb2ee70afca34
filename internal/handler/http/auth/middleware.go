// Package auth provides the control plane's shared-key authentication
// middleware.
package auth

import (
	"net/http"
	"strings"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
	"github.com/masx-ai/flashpoint-pipeline/internal/handler/http/respond"
)

// Config controls the shared-key check. When Required is false every
// request is let through -- operators running behind a trusted network
// boundary can disable the check entirely via REQUIRE_API_KEY.
type Config struct {
	Key      string
	Required bool
}

// Middleware rejects requests on protected endpoints that don't present
// Key via the X-API-Key header or an "Authorization: Bearer <key>" header.
// Public endpoints (see IsPublicEndpoint) are always let through.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Required || IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			presented := extractKey(r)
			if presented == "" || presented != cfg.Key {
				RecordAuthFailure(r.URL.Path)
				respond.SafeErrorV2(w, apperr.New(apperr.KindAuth, "missing or invalid API key", nil))
				return
			}

			RecordAuthSuccess(r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

func extractKey(r *http.Request) string {
	if k := r.Header.Get("X-API-Key"); k != "" {
		return k
	}
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimPrefix(auth, prefix)
	}
	return ""
}
