package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"shelfit/internal/logging"
)

func RecoveryMiddleware(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "panic recovered",
						"request_id", RequestIDFrom(r),
						"error", fmt.Sprint(rec),
						"stack", string(debug.Stack()),
					)

					var wroteHeader bool
					if rw, ok := w.(*responseWriter); ok {
						wroteHeader = rw.wroteHeader()
					}
					if !wroteHeader {
						InternalError(w, r, fmt.Errorf("panic: %v", rec))
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
