package mapsapi

import (
	"github.com/spatialgo/mapsapi/pkg/geo"
)

// XMLLatLng is the nested lat/lng element shared by all XML responses.
type XMLLatLng struct {
	Lat float64 `xml:"lat"`
	Lng float64 `xml:"lng"`
}

// Coordinate converts the wire element to a geo coordinate.
func (l XMLLatLng) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: l.Lat, Longitude: l.Lng}
}

// ValueText is a numeric value with its human-readable unit text, the form
// the service uses for distances (meters) and durations (seconds).
type ValueText struct {
	Value float64 `xml:"value"`
	Text  string  `xml:"text"`
}

// Viewport is a southwest/northeast rectangle as it appears on the wire.
type Viewport struct {
	Southwest XMLLatLng `xml:"southwest"`
	Northeast XMLLatLng `xml:"northeast"`
}

// BBox converts the wire rectangle to (xmin, ymin, xmax, ymax) order.
func (v Viewport) BBox() geo.BBox {
	return geo.BBox{
		XMin: v.Southwest.Lng,
		YMin: v.Southwest.Lat,
		XMax: v.Northeast.Lng,
		YMax: v.Northeast.Lat,
	}
}
