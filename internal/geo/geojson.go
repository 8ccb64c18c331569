package geo

import (
	"errors"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Point is a latitude/longitude pair in shape order.
type Point struct {
	Lat float64
	Lon float64
}

// LineFeature builds a GeoJSON LineString feature ([lon, lat] order) with the
// haversine length in meters under the "length_m" property.
func LineFeature(id string, points []Point, props map[string]any) (*geojson.Feature, error) {
	if len(points) < 2 {
		return nil, errors.New("a line needs at least two points")
	}

	coords := make([]geom.Coord, 0, len(points))
	length := 0.0
	for i, p := range points {
		coords = append(coords, geom.Coord{p.Lon, p.Lat})
		if i > 0 {
			length += Distance(points[i-1].Lat, points[i-1].Lon, p.Lat, p.Lon)
		}
	}

	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, err
	}

	properties := map[string]any{"length_m": length, "points": len(points)}
	for k, v := range props {
		properties[k] = v
	}

	return &geojson.Feature{
		ID:         id,
		Geometry:   line,
		BBox:       line.Bounds(),
		Properties: properties,
	}, nil
}
