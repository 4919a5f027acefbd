// Package gpxfile reads GPX documents into the raw records consumed by
// the track builder.
package gpxfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-gpx"

	"github.com/ray1729/gpx-profile/pkg/track"
)

type Waypoint struct {
	Name string
	track.RawPoint
}

type File struct {
	Name      string
	Time      time.Time
	Link      string
	Segments  []track.Segment
	Waypoints []Waypoint
}

// Read parses a GPX document. Each track segment becomes a Segment named
// after its track, or after the document when the track has no name.
func Read(r io.Reader) (*File, error) {
	g, err := gpx.Read(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing GPX: %v", err)
	}
	var f File
	if g.Metadata != nil {
		f.Name = g.Metadata.Name
		f.Time = g.Metadata.Time
		for _, l := range g.Metadata.Link {
			if strings.HasPrefix(l.HREF, "http") {
				f.Link = l.HREF
				break
			}
		}
	}
	f.Waypoints = waypoints(g)
	for i, trk := range g.Trk {
		name := trk.Name
		if name == "" {
			name = f.Name
		}
		if name == "" {
			name = fmt.Sprintf("Track %d", i+1)
		}
		for _, seg := range trk.TrkSeg {
			points := make([]track.RawPoint, len(seg.TrkPt))
			for j, p := range seg.TrkPt {
				points[j] = rawPoint(p)
			}
			f.Segments = append(f.Segments, track.Segment{Name: name, Points: points})
		}
	}
	return &f, nil
}

// ReadWaypoints parses a GPX document for its waypoints only.
func ReadWaypoints(r io.Reader) ([]Waypoint, error) {
	g, err := gpx.Read(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing GPX: %v", err)
	}
	return waypoints(g), nil
}

func waypoints(g *gpx.GPX) []Waypoint {
	wpts := make([]Waypoint, 0, len(g.Wpt))
	for _, w := range g.Wpt {
		wpts = append(wpts, Waypoint{Name: strings.TrimSpace(w.Name), RawPoint: rawPoint(w)})
	}
	return wpts
}

func rawPoint(p *gpx.WptType) track.RawPoint {
	r := track.RawPoint{
		Lat: strconv.FormatFloat(p.Lat, 'f', -1, 64),
		Lon: strconv.FormatFloat(p.Lon, 'f', -1, 64),
		Ele: strconv.FormatFloat(p.Ele, 'f', -1, 64),
	}
	if !p.Time.IsZero() {
		r.Time = p.Time.Format(time.RFC3339Nano)
	}
	return r
}
