package mapsapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/url"
	"strconv"

	"github.com/paulmach/orb/project"
	"go.uber.org/zap"

	"github.com/spatialgo/mapsapi/pkg/geo"
)

const (
	// tileSize is the side of a Web Mercator tile in pixels.
	tileSize = 256

	// originShift is half the Web Mercator world extent in meters.
	originShift = math.Pi * 6378137

	defaultMapSize = 640
)

// StaticMapRequest describes one static map image query. Width and Height
// default to 640 (the service maximum for unscaled images).
type StaticMapRequest struct {
	Center geo.Coordinate
	Zoom   int `validate:"min=0,max=21"`

	Width    int    `validate:"omitempty,min=1,max=640"`
	Height   int    `validate:"omitempty,min=1,max=640"`
	Scale    int    `validate:"omitempty,oneof=1 2"`
	MapType  string `validate:"omitempty,oneof=roadmap satellite terrain hybrid"`
	Language string

	// Marker adds a marker at the center location.
	Marker bool
}

func (r *StaticMapRequest) applyDefaults() {
	if r.Width == 0 {
		r.Width = defaultMapSize
	}
	if r.Height == 0 {
		r.Height = defaultMapSize
	}
	if r.Scale == 0 {
		r.Scale = 1
	}
}

func (r *StaticMapRequest) validateRequest() error {
	if err := r.Center.Validate(); err != nil {
		return &ValidationError{Field: "center", Reason: err.Error()}
	}
	return validateStruct(r)
}

func (r *StaticMapRequest) params() url.Values {
	params := url.Values{}
	params.Set("center", r.Center.String())
	params.Set("zoom", strconv.Itoa(r.Zoom))
	params.Set("size", fmt.Sprintf("%dx%d", r.Width, r.Height))
	if r.Scale > 1 {
		params.Set("scale", strconv.Itoa(r.Scale))
	}
	if r.MapType != "" {
		params.Set("maptype", r.MapType)
	}
	if r.Language != "" {
		params.Set("language", r.Language)
	}
	if r.Marker {
		params.Set("markers", r.Center.String())
	}
	return params
}

// StaticMapDocument is the raw static map response: the encoded image bytes
// plus the request that produced them, which parsing needs for the
// georeference.
type StaticMapDocument struct {
	Request StaticMapRequest
	PNG     []byte
}

// StaticMap issues one static map request and returns the raw image
// document.
func (c *Client) StaticMap(ctx context.Context, req *StaticMapRequest) (*StaticMapDocument, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request", Reason: "must not be nil"}
	}
	req.applyDefaults()
	if err := req.validateRequest(); err != nil {
		return nil, err
	}

	params := req.params()
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	path := staticMapEndpoint + "?" + params.Encode()

	body, err := c.http.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	c.log.Info("static map response",
		zap.String("center", req.Center.String()),
		zap.Int("zoom", req.Zoom),
		zap.Int("bytes", len(body)),
		zap.String("url", c.http.BaseURL()+path),
	)

	return &StaticMapDocument{Request: *req, PNG: body}, nil
}

// GeoTransform is the affine mapping from pixel grid indices to projected
// coordinates, in GDAL order: x origin, pixel width, row rotation, y origin,
// column rotation, pixel height (negative for north-up images). Origins are
// the top-left corner of the top-left pixel.
type GeoTransform [6]float64

// Apply maps a (column, row) pixel index to projected coordinates.
func (t GeoTransform) Apply(col, row float64) (x, y float64) {
	x = t[0] + col*t[1] + row*t[2]
	y = t[3] + col*t[4] + row*t[5]
	return x, y
}

// Raster is a georeferenced paletted image. The georeference is Web
// Mercator (EPSG:3857), the projection static map tiles are rendered in.
type Raster struct {
	Image     *image.Paletted
	Palette   color.Palette
	Transform GeoTransform
	EPSG      int
}

// Width returns the pixel width of the raster.
func (r *Raster) Width() int {
	return r.Image.Bounds().Dx()
}

// Height returns the pixel height of the raster.
func (r *Raster) Height() int {
	return r.Image.Bounds().Dy()
}

// ParseStaticImage decodes the PNG payload into a pixel grid with its color
// palette and computes the affine geotransform from the request's center,
// zoom, size and scale using the standard tile-pixel formula
// (256 · 2^zoom pixels per world).
func ParseStaticImage(doc *StaticMapDocument) (*Raster, error) {
	if doc == nil {
		return nil, &ParseError{Endpoint: "staticmap", Err: errors.New("nil document")}
	}

	img, err := png.Decode(bytes.NewReader(doc.PNG))
	if err != nil {
		return nil, &ParseError{Endpoint: "staticmap", Err: fmt.Errorf("decode png: %w", err)}
	}

	paletted, err := asPaletted(img)
	if err != nil {
		return nil, &ParseError{Endpoint: "staticmap", Err: err}
	}

	transform, err := staticMapTransform(doc.Request, paletted.Bounds())
	if err != nil {
		return nil, &ParseError{Endpoint: "staticmap", Err: err}
	}

	return &Raster{
		Image:     paletted,
		Palette:   paletted.Palette,
		Transform: transform,
		EPSG:      geo.EPSGWebMercator,
	}, nil
}

// asPaletted returns the image with its palette attached. The service
// serves png8 by default; a truecolor answer with few enough distinct colors
// is converted, anything else is a contract change.
func asPaletted(img image.Image) (*image.Paletted, error) {
	if p, ok := img.(*image.Paletted); ok {
		return p, nil
	}

	bounds := img.Bounds()
	seen := make(map[color.Color]uint8)
	var palette color.Palette

	p := image.NewPaletted(bounds, nil)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			idx, ok := seen[c]
			if !ok {
				if len(palette) >= 256 {
					return nil, errors.New("image is not paletted and has more than 256 colors")
				}
				idx = uint8(len(palette))
				palette = append(palette, c)
				seen[c] = idx
			}
			p.SetColorIndex(x, y, idx)
		}
	}
	p.Palette = palette

	return p, nil
}

// staticMapTransform derives the Web Mercator affine transform for the
// image. The pixel resolution at a zoom level is the world extent divided by
// 256·2^zoom, shrunk further by the scale (pixel density) factor.
func staticMapTransform(req StaticMapRequest, bounds image.Rectangle) (GeoTransform, error) {
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())
	if width == 0 || height == 0 {
		return GeoTransform{}, errors.New("empty image")
	}

	resolution := 2 * originShift / tileSize / math.Exp2(float64(req.Zoom)) / float64(req.Scale)

	center := project.WGS84.ToMercator(req.Center.Point())

	return GeoTransform{
		center[0] - width/2*resolution,
		resolution,
		0,
		center[1] + height/2*resolution,
		0,
		-resolution,
	}, nil
}
