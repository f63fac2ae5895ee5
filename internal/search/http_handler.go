// Package search proxies book searches to Google Books.
package search

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shelfit/internal/httpx"
	"shelfit/internal/logging"
	"shelfit/internal/platform/googlebooks"
)

// Searcher runs a provider query and returns its JSON body.
type Searcher interface {
	Search(ctx context.Context, q string) ([]byte, error)
}

type HTTPHandler struct {
	searcher Searcher
	log      logging.Logger
}

func NewHTTPHandler(searcher Searcher, log logging.Logger) *HTTPHandler {
	return &HTTPHandler{searcher: searcher, log: log}
}

// upstreamErrorResponse mirrors what the provider said so clients can diagnose it.
type upstreamErrorResponse struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	Body      string `json:"body"`
	RequestID string `json:"request_id,omitempty"`
}

// Search handles GET /books/search?q=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Query 'q' required", nil)
		return
	}

	body, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		var upErr *googlebooks.UpstreamError
		if errors.As(err, &upErr) {
			h.log.Warn(r.Context(), "google books request failed",
				"status", upErr.Status,
				"error", err.Error(),
				"request_id", httpx.RequestIDFrom(r),
			)
			httpx.JSON(w, http.StatusBadGateway, upstreamErrorResponse{
				Error:     "Google Books API error",
				Status:    upErr.Status,
				Body:      upErr.Body,
				RequestID: httpx.RequestIDFrom(r),
			})
			return
		}
		httpx.InternalError(w, r, err)
		return
	}
	httpx.RawJSON(w, http.StatusOK, body)
}
