package mapsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeylessRequestOmitsKeyParam(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(geocodeFixture(StatusOK)))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithRateLimit(0), WithQuiet(true))
	_, err := client.Geocode(context.Background(), &GeocodeRequest{
		Addresses: []string{"somewhere"},
	})
	require.NoError(t, err)

	_, hasKey := gotQuery["key"]
	assert.False(t, hasKey)
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("MAPSAPI_KEY", "env-key")
	t.Setenv("MAPSAPI_QUIET", "true")

	client, err := NewClientFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-key", client.apiKey)
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Status: "REQUEST_DENIED", ErrorMessage: "bad key"}
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.Contains(t, err.Error(), "bad key")

	err = &StatusError{Status: "ZERO_RESULTS"}
	assert.Equal(t, "maps API status ZERO_RESULTS", err.Error())
}
