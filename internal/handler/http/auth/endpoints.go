package auth

import "strings"

// PublicEndpoints lists the paths reachable without a key, regardless of
// RequireAPIKey: `/` (root status page) and `/ready` (orchestrator
// readiness probe can't supply a key).
var PublicEndpoints = []string{
	"/",
	"/ready",
}

// IsPublicEndpoint reports whether path may be reached without a key.
// Endpoints are matched exactly, ignoring a trailing slash or query string,
// so "/ready?verbose=1" is public but "/ready/detail" is not.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if path == endpoint {
			return true
		}
		if endpoint != "/" && path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
