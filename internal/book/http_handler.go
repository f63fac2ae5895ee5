package book

import (
	"bytes"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"shelfit/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type manualRequest struct {
	ID            string              `json:"id"`
	Title         string              `json:"title" validate:"notblank"`
	Authors       string              `json:"authors"`
	Publisher     string              `json:"publisher"`
	PublishedDate string              `json:"publishedDate"`
	Description   string              `json:"description"`
	Thumbnail     string              `json:"thumbnail"`
	InfoLink      string              `json:"infoLink"`
	Status        string              `json:"status"`
	Raw           jsoniter.RawMessage `json:"raw"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	books, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Save handles POST /books with a search result as the body.
func (h *HTTPHandler) Save(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var v Volume
	raw, err := httpx.ReadJSON(r, &v)
	if err != nil {
		httpx.BadJSON(w, r, err)
		return
	}
	b, err := h.service.UpsertFromSource(r.Context(), owner, v, raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"book": b})
}

// CreateManual handles POST /books/manual
func (h *HTTPHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req manualRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadJSON(w, r, err)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.ValidationFailed(w, r, details)
		return
	}

	b, err := h.service.CreateManual(r.Context(), owner, ManualInput{
		ID:            req.ID,
		Title:         req.Title,
		Authors:       req.Authors,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		Description:   req.Description,
		Thumbnail:     req.Thumbnail,
		InfoLink:      req.InfoLink,
		Status:        req.Status,
		Raw:           rawText(req.Raw),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"book": b})
}

// PatchStatus handles PATCH /books/{id}
func (h *HTTPHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.BadJSON(w, r, err)
		return
	}
	b, err := h.service.PatchStatus(r.Context(), owner, r.PathValue("id"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"book": b})
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *InputError
	switch {
	case errors.As(err, &inputErr):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", inputErr.Message, nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrAlreadyExists):
		httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Book already exists", nil)
	default:
		httpx.InternalError(w, r, err)
	}
}

func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := httpx.UserIDFrom(r)
	if owner == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return "", false
	}
	return owner, true
}

// rawText stores a JSON string as its contents and any other JSON value as its text.
func rawText(raw jsoniter.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := jsoniter.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
