// Package mapsapi is a client for the Google Maps web APIs: Directions,
// Distance Matrix, Geocoding and Static Maps.
//
// Each API is exposed as a pair of operations: an issue call that performs the
// HTTP request(s) and returns the raw parsed document, and a parse function
// that extracts geospatial layers from it. Vector outputs are GeoJSON feature
// collections in WGS84 (EPSG:4326); static map rasters are georeferenced in
// Web Mercator (EPSG:3857).
//
//	client := mapsapi.NewClient(mapsapi.WithAPIKey(key))
//	doc, err := client.Directions(ctx, &mapsapi.DirectionsRequest{
//		Origin:      mapsapi.Address("Tel-Aviv"),
//		Destination: mapsapi.Address("Jerusalem"),
//	})
//	routes, err := mapsapi.ParseRoutes(doc)
package mapsapi
