package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.trakt.tv"

// Sentinel errors for Trakt API responses.
var (
	ErrNotFound     = errors.New("not found on trakt")
	ErrUnauthorized = errors.New("unauthorized: missing or expired token")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// RateLimitError wraps ErrRateLimited with the wait the server advertised.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Client is a Trakt API v2 client.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	log          *slog.Logger

	// Access token management (thread-safe)
	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "trakt")
	}
}

// New creates a new Trakt API v2 client.
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAccessToken installs the OAuth access token used for user endpoints.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// doRequest performs one API request with the standard Trakt headers.
// A nil body produces a bodyless request.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// checkResponse maps error status codes to sentinel errors.
func (c *Client) checkResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode >= 400:
		return fmt.Errorf("trakt API error: %s", resp.Status)
	}
	return nil
}

// defaultRetryAfter is used when a 429 carries no usable Retry-After header.
const defaultRetryAfter = 60 * time.Second

func parseRetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

// SearchShows searches the catalog for TV shows by title.
func (c *Client) SearchShows(ctx context.Context, query string) ([]Show, error) {
	start := time.Now()

	endpoint := "/search/show?extended=full&query=" + url.QueryEscape(query)
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var results []showSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	shows := make([]Show, 0, len(results))
	for _, r := range results {
		if r.Type != "show" {
			continue
		}
		shows = append(shows, r.Show)
	}

	if c.log != nil {
		c.log.Debug("show search completed", "query", query, "results", len(shows), "duration_ms", time.Since(start).Milliseconds())
	}

	return shows, nil
}

// SearchMovies searches the catalog for movies by title.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	start := time.Now()

	endpoint := "/search/movie?extended=full&query=" + url.QueryEscape(query)
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var results []movieSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	movies := make([]Movie, 0, len(results))
	for _, r := range results {
		if r.Type != "movie" {
			continue
		}
		movies = append(movies, r.Movie)
	}

	if c.log != nil {
		c.log.Debug("movie search completed", "query", query, "results", len(movies), "duration_ms", time.Since(start).Milliseconds())
	}

	return movies, nil
}
