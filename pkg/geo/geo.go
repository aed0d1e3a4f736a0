// Package geo holds the coordinate and bounding box primitives shared by the
// request builders and parsers, bridging them to orb geometry types.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EPSG codes of the two reference systems the library emits.
const (
	EPSGWGS84       = 4326 // geographic lat/lon, all vector outputs
	EPSGWebMercator = 3857 // spherical Mercator, static map rasters
)

const earthRadiusKm = 6371.0

// Coordinate represents a geographic point
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate lies within WGS84 bounds.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f (must be between -90 and 90)", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f (must be between -180 and 180)", c.Longitude)
	}
	return nil
}

// String encodes the coordinate in the "lat,lng" wire form.
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Latitude, c.Longitude)
}

// Point converts the coordinate to an orb point (lon/lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// BBox is an axis-aligned rectangle in geographic coordinates, held in
// (xmin, ymin, xmax, ymax) order. The wire form the maps service expects is
// permuted to south,west|north,east; see Param.
type BBox struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// Validate checks corner ordering and WGS84 bounds.
func (b BBox) Validate() error {
	if b.XMin > b.XMax {
		return fmt.Errorf("invalid bounds: xmin %g > xmax %g", b.XMin, b.XMax)
	}
	if b.YMin > b.YMax {
		return fmt.Errorf("invalid bounds: ymin %g > ymax %g", b.YMin, b.YMax)
	}
	if err := (Coordinate{Latitude: b.YMin, Longitude: b.XMin}).Validate(); err != nil {
		return err
	}
	return (Coordinate{Latitude: b.YMax, Longitude: b.XMax}).Validate()
}

// Param encodes the box in the service's southwest-lat,southwest-lng|
// northeast-lat,northeast-lng order.
func (b BBox) Param() string {
	return fmt.Sprintf("%g,%g|%g,%g", b.YMin, b.XMin, b.YMax, b.XMax)
}

// Bound converts the box to an orb bound (lon/lat order).
func (b BBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.XMin, b.YMin},
		Max: orb.Point{b.XMax, b.YMax},
	}
}

// Polygon returns the box as a closed orb polygon, the form used for
// geocode viewports.
func (b BBox) Polygon() orb.Polygon {
	return b.Bound().ToPolygon()
}

// BBoxFromBound converts an orb bound back to (xmin, ymin, xmax, ymax) order.
func BBoxFromBound(bound orb.Bound) BBox {
	return BBox{
		XMin: bound.Min[0],
		YMin: bound.Min[1],
		XMax: bound.Max[0],
		YMax: bound.Max[1],
	}
}

// Haversine calculates the great-circle distance in kilometres between two
// coordinates. The result is rounded to two decimal places.
func Haversine(a, b Coordinate) float64 {
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180.0
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*math.Pi/180.0)*math.Cos(b.Latitude*math.Pi/180.0)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Round(earthRadiusKm*c*100) / 100
}
