// Package profile reduces a track to the data needed to draw its altitude
// profile.
package profile

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ray1729/gpx-profile/pkg/track"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

const DefaultSamples = 100

// Labels closer than this percentage of the track go on separate rows
const labelSpacing = 10.0

type Sample struct {
	Distance  float64 `json:"distance"`
	Elevation float64 `json:"elevation"`
}

type Label struct {
	Name string `json:"name"`
	// Position as a percentage of the track distance
	Position float64 `json:"position"`
}

type Profile struct {
	Name     string   `json:"name"`
	Distance float64  `json:"distance"`
	Climb    float64  `json:"climb"`
	MinEle   float64  `json:"min_elevation"`
	MaxEle   float64  `json:"max_elevation"`
	Samples  []Sample `json:"samples"`
	Top      []Label  `json:"top_labels,omitempty"`
	Bottom   []Label  `json:"bottom_labels,omitempty"`
}

// New samples t at n evenly spaced distances and places labels for the
// matched waypoints.
func New(t *track.Track, matches []waypoints.Match, n int) *Profile {
	samples := Samples(t, n)
	elevations := make([]float64, len(samples))
	for i, s := range samples {
		elevations[i] = s.Elevation
	}
	p := &Profile{
		Name:     t.Name,
		Distance: t.Distance,
		Climb:    t.Climb,
		MinEle:   floats.Min(elevations),
		MaxEle:   floats.Max(elevations),
		Samples:  samples,
	}
	p.Top, p.Bottom = LabelRows(matches, t.Distance)
	return p
}

// Samples returns n elevations taken at intervals of 1/n of the track
// distance, starting with the first point. Each is the elevation of the
// first point at or beyond the sample distance.
func Samples(t *track.Track, n int) []Sample {
	if n < 1 {
		n = DefaultSamples
	}
	samples := []Sample{{Distance: 0, Elevation: t.First().Ele}}
	delta := t.Distance / float64(n)
	if delta <= 0 {
		return samples
	}
	index := 1
	for i := 1; i < n; i++ {
		upto := delta * float64(i)
		index = t.IndexAtDistance(index, upto)
		samples = append(samples, Sample{Distance: upto, Elevation: t.Point(index).Ele})
	}
	return samples
}

// LabelRows converts the match distances to percentages of total and splits
// them between two rows so that labels on the same row are not crowded
// together. A label goes on the bottom row when it is too close to the
// previous label on the top row.
func LabelRows(matches []waypoints.Match, total float64) (top, bottom []Label) {
	if total <= 0 {
		return nil, nil
	}
	for _, m := range matches {
		l := Label{Name: m.Name, Position: m.Distance * 100.0 / total}
		if len(top) > 0 && l.Position-top[len(top)-1].Position < labelSpacing {
			bottom = append(bottom, l)
			continue
		}
		top = append(top, l)
	}
	return top, bottom
}

// AscentDescent calculates total ascent and descent after smoothing each
// elevation with its neighbours.
// Implementation from https://github.com/ptrv/go-gpx
func AscentDescent(elevations []float64) (float64, float64) {
	n := len(elevations)
	if n == 0 {
		return 0.0, 0.0
	}

	smoothed := make([]float64, n)
	for i, ele := range elevations {
		if 0 < i && i < n-1 {
			smoothed[i] = elevations[i-1]*0.3 + ele*0.4 + elevations[i+1]*0.3
		} else {
			smoothed[i] = ele
		}
	}

	var ascent, descent float64
	for i := 1; i < n; i++ {
		d := smoothed[i] - smoothed[i-1]
		if d > 0.0 {
			ascent += d
		} else {
			descent -= d
		}
	}
	return ascent, descent
}

// Direction describes which way the track heads from its start, judged by
// the centre of all its points so that loops still get a direction.
func Direction(t *track.Track) string {
	pts := t.GeoPoints()
	lats := make([]float64, len(pts))
	lons := make([]float64, len(pts))
	for i, p := range pts {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}
	start := t.First()
	dN := stat.Mean(lats, nil) - start.Lat
	dE := (stat.Mean(lons, nil) - start.Lon) * math.Cos(start.Lat*math.Pi/180)
	return compass(dE, dN)
}

func compass(dE, dN float64) string {
	if dN == 0 {
		if dE >= 0 {
			return "east"
		}
		return "west"
	}
	t := math.Abs(dE) / math.Abs(dN)
	if dN > 0 {
		if t < math.Tan(math.Pi/8) {
			return "north"
		}
		if t < math.Tan(3*math.Pi/8) {
			if dE > 0 {
				return "north-east"
			}
			return "north-west"
		}
		if dE > 0 {
			return "east"
		}
		return "west"
	}
	if t < math.Tan(math.Pi/8) {
		return "south"
	}
	if t < math.Tan(3*math.Pi/8) {
		if dE > 0 {
			return "south-east"
		}
		return "south-west"
	}
	if dE > 0 {
		return "east"
	}
	return "west"
}
