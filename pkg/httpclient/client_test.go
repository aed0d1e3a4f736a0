package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/xml", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte("<GeocodeResponse/>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(0))
	body, err := client.Get(context.Background(), "/geocode/xml?address=x")
	require.NoError(t, err)
	assert.Equal(t, "<GeocodeResponse/>", string(body))
}

func TestGetHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(0))
	_, err := client.Get(context.Background(), "/directions/xml")
	require.Error(t, err)

	httpErr, ok := err.(*HTTPError)
	require.True(t, ok, "expected *HTTPError, got %T", err)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestGetTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(0), WithTimeout(20*time.Millisecond))
	_, err := client.Get(context.Background(), "/distancematrix/xml")
	assert.Error(t, err)
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	// 20 rps keeps the test fast; the second call must wait ~50ms.
	client := NewClient(server.URL, WithRateLimit(20))

	start := time.Now()
	_, err := client.Get(context.Background(), "/a")
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/b")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRateLimiterRespectsContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(0.1))
	_, err := client.Get(context.Background(), "/a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, "/b")
	assert.Error(t, err)
}

func TestEndpointLabelStripsQuery(t *testing.T) {
	assert.Equal(t, "/geocode/xml", endpointLabel("/geocode/xml?address=x&key=secret"))
	assert.Equal(t, "/staticmap", endpointLabel("/staticmap"))
}
