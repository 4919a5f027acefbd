// Package waypoints matches named points of interest to the places where a
// track passes them.
package waypoints

import (
	"fmt"
	"io"
	"sort"

	"github.com/ray1729/gpx-profile/pkg/bbox"
	"github.com/ray1729/gpx-profile/pkg/geo"
	"github.com/ray1729/gpx-profile/pkg/gpxfile"
	"github.com/ray1729/gpx-profile/pkg/track"
)

const (
	// DefaultRadius in metres within which a track must pass a waypoint
	DefaultRadius = 20.0
	// CyclingRadius allows for roads drawn some way from the GPS track
	CyclingRadius = 200.0
)

type Waypoint struct {
	Name  string
	Point geo.Point
}

func (w Waypoint) Location() geo.Point {
	return w.Point
}

// Match is a waypoint and how far along the track it is passed, in metres.
type Match struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// FromGPX converts waypoints read from a GPX file.
func FromGPX(raw []gpxfile.Waypoint) ([]Waypoint, error) {
	wpts := make([]Waypoint, len(raw))
	for i, r := range raw {
		p, err := r.GeoPoint()
		if err != nil {
			return nil, fmt.Errorf("waypoint %q: %w", r.Name, err)
		}
		wpts[i] = Waypoint{Name: r.Name, Point: p}
	}
	return wpts, nil
}

// Load reads the waypoints from a GPX document.
func Load(r io.Reader) ([]Waypoint, error) {
	raw, err := gpxfile.ReadWaypoints(r)
	if err != nil {
		return nil, err
	}
	return FromGPX(raw)
}

// Correlate finds the waypoints the track passes within radius metres of
// and returns them ordered by distance along the track.
func Correlate(t *track.Track, wpts []Waypoint, radius float64) []Match {
	box, err := bbox.FromTrack(t, radius)
	if err != nil {
		return nil
	}
	return correlate(t, bbox.Filter(box, wpts, Waypoint.Location), radius)
}

func correlate(t *track.Track, wpts []Waypoint, radius float64) []Match {
	var matches []Match
	for _, w := range wpts {
		if d, ok := t.NearestPointDistance(w.Point, radius); ok {
			matches = append(matches, Match{Name: w.Name, Distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}
