package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Identity reports whether someone is signed in
type Identity interface {
	IsAuthenticated() bool
}

// RequireSession rejects requests made while signed out with 401
func RequireSession(identity Identity, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !identity.IsAuthenticated() {
				logger.Info("rejected signed-out request", "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Please sign in"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
