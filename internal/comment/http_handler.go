package comment

import (
	"errors"
	"net/http"

	"shelfit/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type createRequest struct {
	Text string `json:"text"`
}

// List handles GET /books/{id}/comments
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		unauthorized(w, r)
		return
	}
	comments, err := h.service.List(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}

// Create handles POST /books/{id}/comments
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		unauthorized(w, r)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.BadJSON(w, r, err)
		return
	}
	c, err := h.service.Add(r.Context(), owner, r.PathValue("id"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"comment": c})
}

// Delete handles DELETE /books/{id}/comments/{commentId}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		unauthorized(w, r)
		return
	}
	if err := h.service.Delete(r.Context(), owner, r.PathValue("id"), r.PathValue("commentId")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmptyText):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "text required", []httpx.ErrorDetail{
			{Field: "text", Message: "text required"},
		})
	case errors.Is(err, ErrBookNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Comment not found", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
}
