package identity

import (
	"errors"
	"net/http"

	"shelfit/internal/httpx"
	"shelfit/internal/logging"
)

// Middleware resolves the caller and stores it in the request context. Failures are 401.
func Middleware(resolver Resolver, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				if errors.Is(err, ErrMissingToken) {
					httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token", nil)
					return
				}
				log.Debug(r.Context(), "token rejected", "request_id", httpx.RequestIDFrom(r), "error", err)
				httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", nil)
				return
			}
			ctx := httpx.ContextWithUser(r.Context(), id.Subject, id.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
