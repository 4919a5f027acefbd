package waypoints

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/ray1729/gpx-profile/pkg/bbox"
	"github.com/ray1729/gpx-profile/pkg/track"
)

// Half-width in degrees of the rectangle stored for each waypoint
const pointTolerance = 1e-9

type entry struct {
	Waypoint
	order int
}

func (e *entry) Bounds() *rtreego.Rect {
	return rtreego.Point{e.Point.Lon, e.Point.Lat}.ToRect(pointTolerance)
}

// Index is an R-tree of waypoints, for matching many tracks against a large
// set of waypoints. Coordinates are stored as (longitude, latitude).
type Index struct {
	rt   *rtreego.Rtree
	size int
}

func NewIndex(wpts []Waypoint) *Index {
	objs := make([]rtreego.Spatial, len(wpts))
	for i, w := range wpts {
		objs[i] = &entry{Waypoint: w, order: i}
	}
	return &Index{rt: rtreego.NewTree(2, 25, 50, objs...), size: len(wpts)}
}

func (ix *Index) Size() int {
	return ix.size
}

// Within returns the waypoints inside the box in the order they were given
// to NewIndex.
func (ix *Index) Within(b bbox.Box) []Waypoint {
	lengths := []float64{
		math.Max(b.East-b.West, pointTolerance),
		math.Max(b.North-b.South, pointTolerance),
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.West, b.South}, lengths)
	if err != nil {
		panic(err)
	}
	var found []*entry
	for _, s := range ix.rt.SearchIntersect(rect) {
		e := s.(*entry)
		if b.Contains(e.Point) {
			found = append(found, e)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].order < found[j].order
	})
	result := make([]Waypoint, len(found))
	for i, e := range found {
		result[i] = e.Waypoint
	}
	return result
}

// Correlate matches t against the indexed waypoints in the same way as the
// package-level Correlate.
func (ix *Index) Correlate(t *track.Track, radius float64) []Match {
	box, err := bbox.FromTrack(t, radius)
	if err != nil {
		return nil
	}
	return correlate(t, ix.Within(box), radius)
}
