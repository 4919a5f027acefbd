// Package track builds filtered GPS tracks from raw track segments and
// answers distance queries along them.
package track

import (
	"math"

	"github.com/ray1729/gpx-profile/pkg/geo"
)

// Track is a named, filtered run of points from one recording segment.
// Distance and Climb are the totals at the final point. A Track is not
// modified after it has been built.
type Track struct {
	Name     string
	Distance float64
	Climb    float64
	points   []Point
}

// NewTrack wraps points, which must already carry their accumulated
// distance and climb.
func NewTrack(name string, points []Point) *Track {
	t := &Track{Name: name, points: points}
	if n := len(points); n > 0 {
		t.Distance = points[n-1].TotalDistance
		t.Climb = points[n-1].Climb
	}
	return t
}

func (t *Track) Len() int {
	return len(t.points)
}

func (t *Track) Point(i int) Point {
	return t.points[i]
}

func (t *Track) First() Point {
	return t.points[0]
}

func (t *Track) Last() Point {
	return t.points[len(t.points)-1]
}

// Points returns a copy of the track's points.
func (t *Track) Points() []Point {
	return append([]Point(nil), t.points...)
}

// GeoPoints returns the positions of the track's points.
func (t *Track) GeoPoints() []geo.Point {
	xs := make([]geo.Point, len(t.points))
	for i, p := range t.points {
		xs[i] = p.Point
	}
	return xs
}

// Elevations returns the elevation of each point in order.
func (t *Track) Elevations() []float64 {
	xs := make([]float64, len(t.points))
	for i, p := range t.points {
		xs[i] = p.Ele
	}
	return xs
}

// Slice returns the points [i, j) as a Track with the same name. The
// points keep the distance and climb accumulated from the start of the
// original track.
func (t *Track) Slice(i, j int) *Track {
	return NewTrack(t.Name, t.points[i:j:j])
}

// NearestPointDistance finds the point on the track closest to target and
// returns its distance along the track. If that point is further than
// radius metres from target, ok is false. When several points are equally
// close the earliest wins.
func (t *Track) NearestPointDistance(target geo.Point, radius float64) (distance float64, ok bool) {
	if len(t.points) == 0 {
		return 0, false
	}
	nearest := 0
	minDist := math.Inf(1)
	for i, p := range t.points {
		if d := geo.Distance(target, p.Point); d < minDist {
			minDist = d
			nearest = i
		}
	}
	if minDist > radius {
		return 0, false
	}
	return t.points[nearest].TotalDistance, true
}

// PointAtDistance returns the first point whose distance along the track is
// at least d, or the last point when d is beyond the end of the track.
func (t *Track) PointAtDistance(d float64) Point {
	return t.points[t.IndexAtDistance(0, d)]
}

// IndexAtDistance scans forward from index start for the first point at
// least d along the track, stopping at the last point.
func (t *Track) IndexAtDistance(start int, d float64) int {
	i := start
	for i < len(t.points)-1 && t.points[i].TotalDistance < d {
		i++
	}
	return i
}
