package mapsapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/spatialgo/mapsapi/pkg/geo"
)

// GeocodeRequest describes a batch of addresses to geocode. Region, Postcode
// and Bounds are optional per-address parameters: give one value to apply it
// to every address, or exactly one value per address.
type GeocodeRequest struct {
	Addresses []string

	Region   []string `validate:"dive,len=2"`
	Postcode []string
	Bounds   []geo.BBox
	Language string
}

// normalized carries the request after broadcast normalization, aligned
// element-wise with Addresses.
type normalizedGeocode struct {
	region   []string
	postcode []string
	bounds   []geo.BBox
}

func (r *GeocodeRequest) normalize() (*normalizedGeocode, error) {
	if len(r.Addresses) == 0 {
		return nil, &ValidationError{Field: "addresses", Reason: "at least one address is required"}
	}
	if err := validateStruct(r); err != nil {
		return nil, err
	}

	n := len(r.Addresses)
	region, err := broadcast("region", r.Region, n)
	if err != nil {
		return nil, err
	}
	postcode, err := broadcast("postcode", r.Postcode, n)
	if err != nil {
		return nil, err
	}
	bounds, err := broadcast("bounds", r.Bounds, n)
	if err != nil {
		return nil, err
	}
	for i, b := range bounds {
		if err := b.Validate(); err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("bounds[%d]", i), Reason: err.Error()}
		}
	}

	return &normalizedGeocode{region: region, postcode: postcode, bounds: bounds}, nil
}

// GeocodeItem is one slot of a batch geocode: the input address in its
// original position, plus either the raw document or the reason it is
// missing. Doc is nil when the input was empty or the request failed.
type GeocodeItem struct {
	Address string
	Doc     *GeocodeDocument
	Err     error
}

// Missing reports whether the slot carries no document.
func (it GeocodeItem) Missing() bool {
	return it.Doc == nil
}

// GeocodeDocuments holds one slot per input address, in input order. The
// length always equals the input length.
type GeocodeDocuments []GeocodeItem

// Geocode issues one request per address, strictly sequentially and rate
// limited. An empty address short-circuits without a network call; a
// transport failure marks its slot and the loop continues. The returned
// error is only for pre-network validation failures or broken responses.
func (c *Client) Geocode(ctx context.Context, req *GeocodeRequest) (GeocodeDocuments, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request", Reason: "must not be nil"}
	}
	norm, err := req.normalize()
	if err != nil {
		return nil, err
	}

	docs := make(GeocodeDocuments, len(req.Addresses))
	for i, address := range req.Addresses {
		docs[i].Address = address

		if strings.TrimSpace(address) == "" {
			c.log.Info("skipping empty address", zap.Int("input_index", i))
			continue
		}

		params := url.Values{}
		params.Set("address", address)
		if norm.region != nil && norm.region[i] != "" {
			params.Set("region", norm.region[i])
		}
		if norm.postcode != nil && norm.postcode[i] != "" {
			params.Set("components", "postal_code:"+norm.postcode[i])
		}
		if norm.bounds != nil {
			params.Set("bounds", norm.bounds[i].Param())
		}
		if req.Language != "" {
			params.Set("language", req.Language)
		}
		if c.apiKey != "" {
			params.Set("key", c.apiKey)
		}
		path := geocodeEndpoint + "?" + params.Encode()

		body, err := c.http.Get(ctx, path)
		if err != nil {
			// Mark the slot and keep going: one bad address must not
			// abort the batch.
			docs[i].Err = err
			c.log.Warn("geocode request failed",
				zap.String("address", address),
				zap.Int("input_index", i),
				zap.Error(err))
			continue
		}

		var doc GeocodeDocument
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, &ParseError{Endpoint: "geocode", Err: err}
		}

		c.log.Info("geocode response",
			zap.String("address", address),
			zap.String("status", doc.Status),
			zap.String("url", c.http.BaseURL()+path),
		)

		if doc.Status != StatusOK {
			docs[i].Err = &StatusError{Status: doc.Status, ErrorMessage: doc.ErrorMessage}
		}
		docs[i].Doc = &doc
	}

	return docs, nil
}

// ParsePoints extracts one point feature per geocode candidate, tagged with
// the originating input index and address. Inputs without a usable document
// or with a non-OK status contribute one feature with nil geometry, so the
// output never silently drops an input.
func ParsePoints(docs GeocodeDocuments) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for i, item := range docs {
		results := usableResults(item)
		if results == nil {
			f := geojson.NewFeature(nil)
			f.Properties["input_index"] = i
			f.Properties["address"] = item.Address
			f.Properties["status"] = itemStatus(item)
			fc.Append(f)
			continue
		}

		for _, res := range results {
			f := geojson.NewFeature(res.Geometry.Location.Coordinate().Point())
			f.Properties["input_index"] = i
			f.Properties["address"] = item.Address
			f.Properties["status"] = StatusOK
			f.Properties["formatted_address"] = res.FormattedAddress
			f.Properties["type"] = strings.Join(res.Types, ";")
			f.Properties["location_type"] = res.Geometry.LocationType
			fc.Append(f)
		}
	}

	return fc, nil
}

// ParseBounds extracts one viewport polygon feature per geocode candidate,
// under the same index-alignment rules as ParsePoints.
func ParseBounds(docs GeocodeDocuments) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for i, item := range docs {
		results := usableResults(item)
		if results == nil {
			f := geojson.NewFeature(nil)
			f.Properties["input_index"] = i
			f.Properties["address"] = item.Address
			f.Properties["status"] = itemStatus(item)
			fc.Append(f)
			continue
		}

		for _, res := range results {
			f := geojson.NewFeature(res.Geometry.Viewport.BBox().Polygon())
			f.Properties["input_index"] = i
			f.Properties["address"] = item.Address
			f.Properties["status"] = StatusOK
			f.Properties["formatted_address"] = res.FormattedAddress
			fc.Append(f)
		}
	}

	return fc, nil
}

func usableResults(item GeocodeItem) []GeocodeResult {
	if item.Doc == nil || item.Doc.Status != StatusOK || len(item.Doc.Results) == 0 {
		return nil
	}
	return item.Doc.Results
}

func itemStatus(item GeocodeItem) string {
	if item.Doc != nil && item.Doc.Status != "" {
		return item.Doc.Status
	}
	if item.Err != nil {
		return "FAILED"
	}
	return "MISSING"
}

// Geocode XML response structures

// GeocodeDocument is the raw parsed geocode response for one address.
type GeocodeDocument struct {
	XMLName      xml.Name        `xml:"GeocodeResponse"`
	Status       string          `xml:"status"`
	ErrorMessage string          `xml:"error_message"`
	Results      []GeocodeResult `xml:"result"`
}

// GeocodeResult is one candidate match.
type GeocodeResult struct {
	Types            []string        `xml:"type"`
	FormattedAddress string          `xml:"formatted_address"`
	Geometry         GeocodeGeometry `xml:"geometry"`
	PlaceID          string          `xml:"place_id"`
	PartialMatch     bool            `xml:"partial_match"`
}

// GeocodeGeometry carries the matched location and its viewport.
type GeocodeGeometry struct {
	Location     XMLLatLng   `xml:"location"`
	LocationType string   `xml:"location_type"`
	Viewport     Viewport `xml:"viewport"`
}
