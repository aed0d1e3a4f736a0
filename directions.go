package mapsapi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// DirectionsRequest describes a single directions query between an origin
// and a destination, optionally via waypoints.
type DirectionsRequest struct {
	Origin      Location
	Destination Location
	Waypoints   []Location

	Mode         string `validate:"omitempty,oneof=driving walking bicycling transit"`
	Alternatives bool
	Avoid        []string `validate:"dive,oneof=tolls highways ferries indoor"`
	Region       string   `validate:"omitempty,len=2"`
	Language     string
	TrafficModel string `validate:"omitempty,oneof=best_guess pessimistic optimistic"`

	DepartureTime *time.Time
	ArrivalTime   *time.Time
}

func (r *DirectionsRequest) validateRequest() error {
	if err := r.Origin.validate("origin"); err != nil {
		return err
	}
	if err := r.Destination.validate("destination"); err != nil {
		return err
	}
	for i, wp := range r.Waypoints {
		if err := wp.validate(fmt.Sprintf("waypoints[%d]", i)); err != nil {
			return err
		}
	}
	return validateStruct(r)
}

func (r *DirectionsRequest) params() url.Values {
	params := url.Values{}
	params.Set("origin", r.Origin.param())
	params.Set("destination", r.Destination.param())

	if len(r.Waypoints) > 0 {
		waypoints := make([]string, len(r.Waypoints))
		for i, wp := range r.Waypoints {
			waypoints[i] = wp.param()
		}
		params.Set("waypoints", strings.Join(waypoints, "|"))
	}

	if r.Mode != "" {
		params.Set("mode", r.Mode)
	}
	if r.Alternatives {
		params.Set("alternatives", "true")
	}
	if len(r.Avoid) > 0 {
		params.Set("avoid", strings.Join(r.Avoid, "|"))
	}
	if r.Region != "" {
		params.Set("region", r.Region)
	}
	if r.Language != "" {
		params.Set("language", r.Language)
	}
	if r.TrafficModel != "" {
		params.Set("traffic_model", r.TrafficModel)
	}
	if r.DepartureTime != nil {
		params.Set("departure_time", strconv.FormatInt(r.DepartureTime.Unix(), 10))
	}
	if r.ArrivalTime != nil {
		params.Set("arrival_time", strconv.FormatInt(r.ArrivalTime.Unix(), 10))
	}

	return params
}

// Directions issues one directions request and returns the raw parsed
// document. A non-OK API status is recorded on the document and logged, not
// returned as an error; transport and schema failures are.
func (c *Client) Directions(ctx context.Context, req *DirectionsRequest) (*DirectionsDocument, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request", Reason: "must not be nil"}
	}
	if err := req.validateRequest(); err != nil {
		return nil, err
	}

	params := req.params()
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	path := directionsEndpoint + "?" + params.Encode()

	body, err := c.http.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var doc DirectionsDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Endpoint: "directions", Err: err}
	}

	c.log.Info("directions response",
		zap.String("origin", req.Origin.String()),
		zap.String("destination", req.Destination.String()),
		zap.String("status", doc.Status),
		zap.String("url", c.http.BaseURL()+path),
	)
	if doc.Status != StatusOK {
		c.log.Warn("directions returned no usable routes",
			zap.String("status", doc.Status),
			zap.String("error_message", doc.ErrorMessage))
	}

	return &doc, nil
}

// ParseRoutes extracts one line feature per alternative route, with the
// step geometries concatenated into the full route line. The collection is
// GeoJSON, hence WGS84.
func ParseRoutes(doc *DirectionsDocument) (*geojson.FeatureCollection, error) {
	if doc == nil {
		return nil, &ParseError{Endpoint: "directions", Err: errors.New("nil document")}
	}

	fc := geojson.NewFeatureCollection()
	for alt, route := range doc.Routes {
		var line orb.LineString
		var distance, duration float64

		for _, leg := range route.Legs {
			distance += leg.Distance.Value
			duration += leg.Duration.Value
			for _, step := range leg.Steps {
				pts, err := decodePolyline(step.Polyline.Points)
				if err != nil {
					return nil, &ParseError{Endpoint: "directions", Err: err}
				}
				// Consecutive steps share their joint vertex.
				if len(line) > 0 && len(pts) > 0 && line[len(line)-1] == pts[0] {
					pts = pts[1:]
				}
				line = append(line, pts...)
			}
		}

		f := geojson.NewFeature(line)
		f.Properties["alternative_id"] = alt
		f.Properties["summary"] = route.Summary
		f.Properties["distance_m"] = distance
		f.Properties["duration_s"] = duration
		fc.Append(f)
	}

	return fc, nil
}

// ParseSegments extracts one feature per step: the flattened per-step view
// used for detailed route inspection. segment_id is the step's position
// within the whole route, counted across legs.
func ParseSegments(doc *DirectionsDocument) (*geojson.FeatureCollection, error) {
	if doc == nil {
		return nil, &ParseError{Endpoint: "directions", Err: errors.New("nil document")}
	}

	fc := geojson.NewFeatureCollection()
	for alt, route := range doc.Routes {
		segment := 0
		for _, leg := range route.Legs {
			for _, step := range leg.Steps {
				pts, err := decodePolyline(step.Polyline.Points)
				if err != nil {
					return nil, &ParseError{Endpoint: "directions", Err: err}
				}

				f := geojson.NewFeature(pts)
				f.Properties["alternative_id"] = alt
				f.Properties["segment_id"] = segment
				f.Properties["instructions"] = step.HTMLInstructions
				f.Properties["distance_m"] = step.Distance.Value
				f.Properties["distance_text"] = step.Distance.Text
				f.Properties["duration_s"] = step.Duration.Value
				f.Properties["duration_text"] = step.Duration.Text
				fc.Append(f)
				segment++
			}
		}
	}

	return fc, nil
}

// decodePolyline turns an encoded polyline into a lon/lat line string.
func decodePolyline(encoded string) (orb.LineString, error) {
	if encoded == "" {
		return orb.LineString{}, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}

	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c[1], c[0]}
	}
	return line, nil
}

// Directions XML response structures

// DirectionsDocument is the raw parsed directions response.
type DirectionsDocument struct {
	XMLName      xml.Name          `xml:"DirectionsResponse"`
	Status       string            `xml:"status"`
	ErrorMessage string            `xml:"error_message"`
	Routes       []DirectionsRoute `xml:"route"`
}

// DirectionsRoute is one proposed alternative.
type DirectionsRoute struct {
	Summary          string          `xml:"summary"`
	Legs             []DirectionsLeg `xml:"leg"`
	OverviewPolyline Polyline        `xml:"overview_polyline"`
	Bounds           *Viewport       `xml:"bounds"`
	Warnings         []string        `xml:"warning"`
}

// DirectionsLeg is the sub-path between two waypoints.
type DirectionsLeg struct {
	StartAddress  string           `xml:"start_address"`
	EndAddress    string           `xml:"end_address"`
	StartLocation XMLLatLng           `xml:"start_location"`
	EndLocation   XMLLatLng           `xml:"end_location"`
	Distance      ValueText        `xml:"distance"`
	Duration      ValueText        `xml:"duration"`
	Steps         []DirectionsStep `xml:"step"`
}

// DirectionsStep is the smallest directions unit.
type DirectionsStep struct {
	HTMLInstructions string    `xml:"html_instructions"`
	Distance         ValueText `xml:"distance"`
	Duration         ValueText `xml:"duration"`
	StartLocation    XMLLatLng    `xml:"start_location"`
	EndLocation      XMLLatLng    `xml:"end_location"`
	Polyline         Polyline  `xml:"polyline"`
	TravelMode       string    `xml:"travel_mode"`
	Maneuver         string    `xml:"maneuver"`
}

// Polyline holds an encoded polyline string.
type Polyline struct {
	Points string `xml:"points"`
}
