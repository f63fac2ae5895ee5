package auth

import (
	"errors"
	"net/http"
	"strings"

	"shelfit/internal/httpx"
	"shelfit/internal/platform/crypto"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type credentialsReq struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request) (credentialsReq, bool) {
	var req credentialsReq
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		httpx.BadJSON(w, r, err)
		return req, false
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", ErrMissingFields.Error(), nil)
		return req, false
	}
	req.Email = strings.TrimSpace(req.Email)
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.ValidationFailed(w, r, details)
		return req, false
	}
	return req, true
}

// Signup handles POST /auth/signup
func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := map[string]any{"message": "signup ok, verify email"}
	if res.VerifyURLDev != "" {
		body["verifyUrlDev"] = res.VerifyURLDev
	}
	httpx.JSONSuccess(w, http.StatusOK, body)
}

// Login handles POST /auth/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"token": res.Token, "user": res.User})
}

// Verify handles GET /auth/verify?token=
func (h *HTTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "token required", nil)
		return
	}
	u, err := h.service.Verify(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, map[string]any{"user": u})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, crypto.ErrPasswordTooShort),
		errors.Is(err, crypto.ErrPasswordTooLong):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, ErrEmailInUse):
		httpx.JSONError(w, r, http.StatusBadRequest, "EMAIL_IN_USE", err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error(), nil)
	case errors.Is(err, ErrNotVerified):
		httpx.JSONError(w, r, http.StatusForbidden, "EMAIL_NOT_VERIFIED", err.Error(), nil)
	case errors.Is(err, ErrInvalidToken):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_TOKEN", err.Error(), nil)
	case errors.Is(err, ErrMailDelivery):
		httpx.JSONError(w, r, http.StatusBadGateway, "MAIL_DELIVERY_FAILED", ErrMailDelivery.Error(), nil)
	default:
		httpx.InternalError(w, r, err)
	}
}
