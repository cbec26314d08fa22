package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth guards a subtree with a static bearer token. An empty
// token disables the subtree entirely rather than leaving it open.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				httpError(w, http.StatusForbidden, "authentication_error", "management API disabled: set TUX_AUTH_TOKEN to enable it")
				return
			}
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
