package httpx

import (
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

type ErrorResponse struct {
	OK        bool          `json:"ok"`
	Error     string        `json:"error"`
	Code      string        `json:"code"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonAPI.NewEncoder(w).Encode(v)
}

// JSONSuccess writes {"ok":true} merged with fields.
func JSONSuccess(w http.ResponseWriter, status int, fields map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, status, body)
}

// RawJSON relays an already encoded JSON document.
func RawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	JSON(w, statusCode, ErrorResponse{
		OK:        false,
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: RequestIDFrom(r),
	})
}

// InternalError reports a 500. The underlying error is only exposed when DebugErrorsMiddleware is enabled.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{
		OK:        false,
		Error:     "Internal server error",
		Code:      "INTERNAL_ERROR",
		RequestID: RequestIDFrom(r),
	}
	if err != nil && debugErrors(r) {
		resp.Detail = err.Error()
	}
	JSON(w, http.StatusInternalServerError, resp)
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	err := jsonAPI.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}

// ReadJSON reads the whole body, checks it is JSON, and decodes it into v. The raw bytes are returned.
func ReadJSON(r *http.Request, v any) ([]byte, error) {
	if r.Body == nil {
		return nil, ErrEmptyBody
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	if err := jsonAPI.Unmarshal(body, v); err != nil {
		return nil, err
	}
	return body, nil
}

// BadJSON writes the 400 used for undecodable request bodies.
func BadJSON(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return
	}
	JSONError(w, r, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body", nil)
}
