package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
)

// RequireAPIKey gates management routes behind the X-API-Key header.
// If no key is configured the routes stay disabled entirely.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				log.Printf("management request rejected: API_KEY is not configured")
				writeError(w, http.StatusInternalServerError, "management API is not configured")
				return
			}
			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
