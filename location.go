package mapsapi

import (
	"github.com/spatialgo/mapsapi/pkg/geo"
)

// Location is a place given either as a coordinate pair or as a free-text
// name. Slices of locations may mix both forms.
type Location struct {
	address string
	coord   *geo.Coordinate
}

// Address makes a free-text location.
func Address(s string) Location {
	return Location{address: s}
}

// LatLng makes a coordinate location.
func LatLng(lat, lng float64) Location {
	return Location{coord: &geo.Coordinate{Latitude: lat, Longitude: lng}}
}

// Coord makes a coordinate location from an existing coordinate.
func Coord(c geo.Coordinate) Location {
	return Location{coord: &c}
}

// IsZero reports whether the location carries neither form.
func (l Location) IsZero() bool {
	return l.coord == nil && l.address == ""
}

// validate rejects empty locations and out-of-range coordinates.
func (l Location) validate(field string) error {
	if l.IsZero() {
		return &ValidationError{Field: field, Reason: "location must be a coordinate pair or a non-empty place name"}
	}
	if l.coord != nil {
		if err := l.coord.Validate(); err != nil {
			return &ValidationError{Field: field, Reason: err.Error()}
		}
	}
	return nil
}

// param returns the query-string form: "lat,lng" for coordinates, the
// verbatim text otherwise. Percent-encoding happens when the whole query is
// encoded, not here.
func (l Location) param() string {
	if l.coord != nil {
		return l.coord.String()
	}
	return l.address
}

// String implements fmt.Stringer; it matches the wire form.
func (l Location) String() string {
	return l.param()
}
