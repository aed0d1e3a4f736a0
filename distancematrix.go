package mapsapi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MatrixValue selects which cell value ParseMatrix extracts.
type MatrixValue string

const (
	// MatrixDistance extracts distances in meters.
	MatrixDistance MatrixValue = "distance"
	// MatrixDuration extracts travel times in seconds.
	MatrixDuration MatrixValue = "duration"
)

// DistanceMatrixRequest describes one origins × destinations query.
type DistanceMatrixRequest struct {
	Origins      []Location
	Destinations []Location

	Mode         string `validate:"omitempty,oneof=driving walking bicycling transit"`
	Language     string
	Region       string `validate:"omitempty,len=2"`
	TrafficModel string `validate:"omitempty,oneof=best_guess pessimistic optimistic"`

	DepartureTime *time.Time
	ArrivalTime   *time.Time
}

func (r *DistanceMatrixRequest) validateRequest() error {
	if len(r.Origins) == 0 {
		return &ValidationError{Field: "origins", Reason: "at least one origin is required"}
	}
	if len(r.Destinations) == 0 {
		return &ValidationError{Field: "destinations", Reason: "at least one destination is required"}
	}
	for i, o := range r.Origins {
		if err := o.validate(fmt.Sprintf("origins[%d]", i)); err != nil {
			return err
		}
	}
	for i, d := range r.Destinations {
		if err := d.validate(fmt.Sprintf("destinations[%d]", i)); err != nil {
			return err
		}
	}
	return validateStruct(r)
}

func (r *DistanceMatrixRequest) params() url.Values {
	params := url.Values{}

	origins := make([]string, len(r.Origins))
	for i, o := range r.Origins {
		origins[i] = o.param()
	}
	params.Set("origins", strings.Join(origins, "|"))

	destinations := make([]string, len(r.Destinations))
	for i, d := range r.Destinations {
		destinations[i] = d.param()
	}
	params.Set("destinations", strings.Join(destinations, "|"))

	if r.Mode != "" {
		params.Set("mode", r.Mode)
	}
	if r.Language != "" {
		params.Set("language", r.Language)
	}
	if r.Region != "" {
		params.Set("region", r.Region)
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

// DistanceMatrix issues one distance-matrix request and returns the raw
// parsed document.
func (c *Client) DistanceMatrix(ctx context.Context, req *DistanceMatrixRequest) (*DistanceMatrixDocument, error) {
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
	path := distanceMatrixEndpoint + "?" + params.Encode()

	body, err := c.http.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var doc DistanceMatrixDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Endpoint: "distancematrix", Err: err}
	}

	c.log.Info("distance matrix response",
		zap.Int("origins", len(req.Origins)),
		zap.Int("destinations", len(req.Destinations)),
		zap.String("status", doc.Status),
		zap.String("url", c.http.BaseURL()+path),
	)
	if doc.Status != StatusOK {
		c.log.Warn("distance matrix returned no usable rows",
			zap.String("status", doc.Status),
			zap.String("error_message", doc.ErrorMessage))
	}

	return &doc, nil
}

// Matrix is a distance or duration table. Values[i][j] is the value from
// Origins[i] to Destinations[j]; cells the service could not resolve are NaN.
type Matrix struct {
	Origins      []string
	Destinations []string
	Values       [][]float64
}

// IsMissing reports whether the cell at (i, j) carries no value.
func (m *Matrix) IsMissing(i, j int) bool {
	return math.IsNaN(m.Values[i][j])
}

// ParseMatrix extracts the requested value kind from a distance-matrix
// document. Cells with a non-OK element status become NaN; row and column
// order follows the original request.
func ParseMatrix(doc *DistanceMatrixDocument, value MatrixValue) (*Matrix, error) {
	if doc == nil {
		return nil, &ParseError{Endpoint: "distancematrix", Err: errors.New("nil document")}
	}
	if value != MatrixDistance && value != MatrixDuration {
		return nil, &ValidationError{Field: "value", Reason: `must be "distance" or "duration"`}
	}

	m := &Matrix{
		Origins:      doc.OriginAddresses,
		Destinations: doc.DestinationAddresses,
		Values:       make([][]float64, len(doc.Rows)),
	}

	for i, row := range doc.Rows {
		m.Values[i] = make([]float64, len(row.Elements))
		for j, elem := range row.Elements {
			if elem.Status != StatusOK {
				m.Values[i][j] = math.NaN()
				continue
			}
			switch value {
			case MatrixDistance:
				m.Values[i][j] = elem.Distance.Value
			case MatrixDuration:
				m.Values[i][j] = elem.Duration.Value
			}
		}
	}

	return m, nil
}

// Distance Matrix XML response structures

// DistanceMatrixDocument is the raw parsed distance-matrix response.
type DistanceMatrixDocument struct {
	XMLName              xml.Name            `xml:"DistanceMatrixResponse"`
	Status               string              `xml:"status"`
	ErrorMessage         string              `xml:"error_message"`
	OriginAddresses      []string            `xml:"origin_address"`
	DestinationAddresses []string            `xml:"destination_address"`
	Rows                 []DistanceMatrixRow `xml:"row"`
}

// DistanceMatrixRow is one origin's row of cells.
type DistanceMatrixRow struct {
	Elements []DistanceMatrixElement `xml:"element"`
}

// DistanceMatrixElement is one (origin, destination) cell.
type DistanceMatrixElement struct {
	Status   string    `xml:"status"`
	Duration ValueText `xml:"duration"`
	Distance ValueText `xml:"distance"`
}
