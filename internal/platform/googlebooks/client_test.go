package googlebooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://example.test/books/v1/"})
	assert.Equal(t, "https://example.test/books/v1/volumes?maxResults=20&q=dune+messiah", c.SearchURL("dune messiah"))

	c = NewClient(Config{BaseURL: "https://example.test", APIKey: "k"})
	assert.Equal(t, "https://example.test/volumes?key=k&maxResults=20&q=go", c.SearchURL("go"))
}

func TestClient_Search(t *testing.T) {
	t.Run("relays body verbatim", func(t *testing.T) {
		payload := `{"kind":"books#volumes","totalItems":1,"items":[{"id":"abc"}]}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/volumes", r.URL.Path)
			assert.Equal(t, "dune", r.URL.Query().Get("q"))
			assert.Equal(t, "20", r.URL.Query().Get("maxResults"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		}))
		defer srv.Close()

		body, err := NewClient(Config{BaseURL: srv.URL}).Search(context.Background(), "dune")
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
	})

	t.Run("non-2xx is an upstream error and not retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"backend"}}`))
		}))
		defer srv.Close()

		_, err := NewClient(Config{BaseURL: srv.URL}).Search(context.Background(), "dune")
		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusServiceUnavailable, upErr.Status)
		assert.Contains(t, upErr.Body, "backend")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("timeout has status zero", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		_, err := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}).Search(context.Background(), "dune")
		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, 0, upErr.Status)
	})

	t.Run("non json body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}))
		defer srv.Close()

		_, err := NewClient(Config{BaseURL: srv.URL}).Search(context.Background(), "dune")
		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusOK, upErr.Status)
	})

	t.Run("blank query", func(t *testing.T) {
		_, err := NewClient(Config{}).Search(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}
