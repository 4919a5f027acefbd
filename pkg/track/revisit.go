package track

import "github.com/ray1729/gpx-profile/pkg/geo"

// Revisit records the track passing the same place twice.
type Revisit struct {
	Point geo.Point
	// Distances along the track of the two visits, in metres
	First  float64
	Second float64
}

// Revisits finds pairs of points within fuzz metres of each other whose
// separation along the track is more than minGap and less than maxGap
// metres. Out-and-back sections and accidental loops show up this way.
func (t *Track) Revisits(fuzz, minGap, maxGap float64) []Revisit {
	var result []Revisit
	for i := range t.points {
		p := t.points[i]
		for j := i + 1; j < len(t.points); j++ {
			q := t.points[j]
			gap := q.TotalDistance - p.TotalDistance
			if gap >= maxGap {
				break
			}
			if gap <= minGap {
				continue
			}
			if geo.Distance(p.Point, q.Point) < fuzz {
				result = append(result, Revisit{Point: p.Point, First: p.TotalDistance, Second: q.TotalDistance})
			}
		}
	}
	return result
}
