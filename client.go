package mapsapi

import (
	"time"

	"go.uber.org/zap"

	"github.com/spatialgo/mapsapi/pkg/config"
	"github.com/spatialgo/mapsapi/pkg/httpclient"
	"github.com/spatialgo/mapsapi/pkg/logger"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api"

	directionsEndpoint     = "/directions/xml"
	distanceMatrixEndpoint = "/distancematrix/xml"
	geocodeEndpoint        = "/geocode/xml"
	staticMapEndpoint      = "/staticmap"
)

// Client issues requests against the Google Maps web APIs. The zero value is
// not usable; construct one with NewClient or NewClientFromEnv.
type Client struct {
	apiKey string
	http   *httpclient.Client
	log    *zap.Logger
}

type clientSettings struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	rps     float64
	rpsSet  bool
	quiet   bool
}

// ClientOption configures a Client.
type ClientOption func(*clientSettings)

// WithAPIKey sets the API key appended to every request. Without it requests
// go out keyless and rely on an environment-level credential upstream.
func WithAPIKey(key string) ClientOption {
	return func(s *clientSettings) {
		s.apiKey = key
	}
}

// WithBaseURL points the client at a different service root. Used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(s *clientSettings) {
		s.baseURL = baseURL
	}
}

// WithTimeout overrides the default 10s per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(s *clientSettings) {
		s.timeout = timeout
	}
}

// WithRateLimit overrides the default 1 req/s outbound limit. rps <= 0
// disables rate limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(s *clientSettings) {
		s.rps = rps
		s.rpsSet = true
	}
}

// WithQuiet suppresses the per-request progress log lines.
func WithQuiet(quiet bool) ClientOption {
	return func(s *clientSettings) {
		s.quiet = quiet
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...ClientOption) *Client {
	settings := clientSettings{
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	httpOpts := []httpclient.Option{}
	if settings.timeout > 0 {
		httpOpts = append(httpOpts, httpclient.WithTimeout(settings.timeout))
	}
	if settings.rpsSet {
		httpOpts = append(httpOpts, httpclient.WithRateLimit(settings.rps))
	}

	log := logger.Get()
	if settings.quiet {
		log = zap.NewNop()
	}

	return &Client{
		apiKey: settings.apiKey,
		http:   httpclient.NewClient(settings.baseURL, httpOpts...),
		log:    log,
	}
}

// NewClientFromEnv builds a Client from environment configuration
// (MAPSAPI_KEY / GOOGLE_MAPS_API_KEY, MAPSAPI_TIMEOUT_SECONDS,
// MAPSAPI_RATE_PER_SEC, MAPSAPI_QUIET), loading .env when present.
func NewClientFromEnv() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Environment); err != nil {
		return nil, err
	}

	return NewClient(
		WithAPIKey(cfg.APIKey),
		WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		WithRateLimit(cfg.RatePerSecond),
		WithQuiet(cfg.Quiet),
	), nil
}
