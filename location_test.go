package mapsapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialgo/mapsapi/pkg/geo"
)

func TestLocationParam(t *testing.T) {
	assert.Equal(t, "Tel-Aviv", Address("Tel-Aviv").param())
	assert.Equal(t, "32.08,34.78", LatLng(32.08, 34.78).param())
	assert.Equal(t, "31.77,35.21", Coord(geo.Coordinate{Latitude: 31.77, Longitude: 35.21}).param())
}

func TestLocationValidate(t *testing.T) {
	var vErr *ValidationError

	err := Location{}.validate("origin")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "origin", vErr.Field)

	err = LatLng(100, 34).validate("origin")
	require.ErrorAs(t, err, &vErr)

	assert.NoError(t, Address("anywhere").validate("origin"))
	assert.NoError(t, LatLng(32, 34).validate("origin"))
}

func TestBroadcast(t *testing.T) {
	// Absent stays absent.
	got, err := broadcast[string]("region", nil, 3)
	require.NoError(t, err)
	assert.Nil(t, got)

	// A scalar replicates.
	got, err = broadcast("region", []string{"il"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"il", "il", "il"}, got)

	// Equal length passes through.
	got, err = broadcast("region", []string{"il", "fr", "de"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"il", "fr", "de"}, got)

	// Anything else fails.
	_, err = broadcast("region", []string{"il", "fr"}, 3)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "region", vErr.Field)
}
