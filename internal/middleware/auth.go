package middleware

import (
	"net/http"

	"github.com/worldlegendscup/commerce-api/internal/config"
)

// AdminKeyAuth guards the admin subtree. The back-office sends its key in
// the "X-Admin-Key" header; public checkout routes are not behind this.
func AdminKeyAuth(cfg config.AdminConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Admin-Key")

			if key == "" {
				http.Error(w, "Unauthorized: admin key required", http.StatusUnauthorized)
				return
			}

			valid := false
			for _, validKey := range cfg.APIKeys {
				if key == validKey {
					valid = true
					break
				}
			}

			if !valid {
				http.Error(w, "Forbidden: invalid admin key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
