// Package googlebooks is a minimal Google Books volumes API client.
package googlebooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://www.googleapis.com/books/v1"
	DefaultMaxResults = 20

	maxBodyBytes = 4 << 20
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("query required")

// UpstreamError reports a failed call to the volumes API. Status is 0 when no response arrived.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("google books: %v", e.Err)
	}
	return fmt.Sprintf("google books: unexpected status code: %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RPS       int
	UserAgent string
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxResults int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "shelfit/1.0"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		maxResults: DefaultMaxResults,
	}
}

// SearchURL builds the volumes query URL for q.
func (c *Client) SearchURL(q string) string {
	v := url.Values{}
	v.Set("q", q)
	v.Set("maxResults", strconv.Itoa(c.maxResults))
	if c.apiKey != "" {
		v.Set("key", c.apiKey)
	}
	return c.baseURL + "/volumes?" + v.Encode()
}

// Search runs a volumes query and returns the response body untouched. The call is made once.
func (c *Client) Search(ctx context.Context, q string) ([]byte, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	return c.rawGet(ctx, c.SearchURL(q))
}

func (c *Client) rawGet(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	if !jsoniter.Valid(body) {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body), Err: errors.New("response is not JSON")}
	}
	return body, nil
}
