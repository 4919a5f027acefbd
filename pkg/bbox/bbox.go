// Package bbox provides latitude/longitude rectangles padded by a distance
// in metres.
package bbox

import (
	"errors"
	"fmt"

	"github.com/ray1729/gpx-profile/pkg/geo"
	"github.com/ray1729/gpx-profile/pkg/track"
)

var ErrEmpty = errors.New("no points to bound")

// Box is a region bounded by lines of latitude and longitude. Boxes that
// cross the antimeridian are not supported.
type Box struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// FromPoint returns a box centred on p extending padding metres in each
// direction.
func FromPoint(p geo.Point, padding float64) Box {
	lat, lon := geo.DegreesPerMetre(p, padding)
	return Box{
		North: p.Lat + lat,
		South: p.Lat - lat,
		East:  p.Lon + lon,
		West:  p.Lon - lon,
	}
}

// FromPoints returns the smallest box containing points, with each edge
// moved out by padding metres measured at the point that defines it.
func FromPoints(points []geo.Point, padding float64) (Box, error) {
	if len(points) == 0 {
		return Box{}, ErrEmpty
	}
	n, s, e, w := points[0], points[0], points[0], points[0]
	for _, p := range points[1:] {
		if p.Lat > n.Lat {
			n = p
		}
		if p.Lat < s.Lat {
			s = p
		}
		if p.Lon > e.Lon {
			e = p
		}
		if p.Lon < w.Lon {
			w = p
		}
	}
	nLat, _ := geo.DegreesPerMetre(n, padding)
	sLat, _ := geo.DegreesPerMetre(s, padding)
	_, eLon := geo.DegreesPerMetre(e, padding)
	_, wLon := geo.DegreesPerMetre(w, padding)
	return Box{
		North: n.Lat + nLat,
		South: s.Lat - sLat,
		East:  e.Lon + eLon,
		West:  w.Lon - wLon,
	}, nil
}

// FromTrack bounds the points of t.
func FromTrack(t *track.Track, padding float64) (Box, error) {
	return FromPoints(t.GeoPoints(), padding)
}

// Contains reports whether p lies in the box, edges included.
func (b Box) Contains(p geo.Point) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lon >= b.West && p.Lon <= b.East
}

// Filter returns the elements of xs whose location lies in the box, in
// their original order.
func Filter[T any](b Box, xs []T, location func(T) geo.Point) []T {
	var result []T
	for _, x := range xs {
		if b.Contains(location(x)) {
			result = append(result, x)
		}
	}
	return result
}

// Corners returns the north-west, north-east, south-east and south-west
// corners.
func (b Box) Corners() [4]geo.Point {
	return [4]geo.Point{
		{Lat: b.North, Lon: b.West},
		{Lat: b.North, Lon: b.East},
		{Lat: b.South, Lon: b.East},
		{Lat: b.South, Lon: b.West},
	}
}

// EdgeLengths gives the length of each side of a box in metres.
type EdgeLengths struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

func (b Box) EdgeLengths() EdgeLengths {
	c := b.Corners()
	return EdgeLengths{
		North: geo.Distance(c[0], c[1]),
		East:  geo.Distance(c[1], c[2]),
		South: geo.Distance(c[2], c[3]),
		West:  geo.Distance(c[3], c[0]),
	}
}

func (b Box) String() string {
	return fmt.Sprintf("%f..%f %f..%f", b.North, b.South, b.West, b.East)
}
