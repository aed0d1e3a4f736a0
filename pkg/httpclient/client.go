package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/spatialgo/mapsapi/pkg/logger"
)

const (
	// DefaultTimeout bounds a single request, connect phase included.
	DefaultTimeout = 10 * time.Second

	// DefaultRequestsPerSecond keeps the client under the documented
	// ~50 requests/minute quota of the upstream service.
	DefaultRequestsPerSecond = 1
)

// Client wraps http.Client with rate limiting and per-request logging.
// It deliberately does not retry: a failed call surfaces to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures the HTTP client
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit replaces the default limiter with one allowing rps requests
// per second. rps <= 0 disables rate limiting entirely.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new HTTP client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get makes a GET request for baseURL+path and returns the raw body.
// The limiter blocks until the request may be sent, so a batch of calls is
// naturally spaced out without a trailing delay after the last one.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", requestID)

	endpoint := endpointLabel(path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observeRequest(endpoint, "error", time.Since(start))
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	observeRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// BaseURL returns the root the client resolves paths against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// endpointLabel reduces a request path to its endpoint for metric labels,
// stripping the query string so label cardinality stays bounded.
func endpointLabel(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '?' {
			return path[:i]
		}
	}
	return path
}
