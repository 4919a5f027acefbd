package track

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ray1729/gpx-profile/pkg/geo"
)

var ErrMalformedPoint = errors.New("malformed track point")

// RawPoint holds the field values of a track point as they appear in the
// source file.
type RawPoint struct {
	Lat  string
	Lon  string
	Ele  string
	Time string
}

// Segment is an ordered run of raw points from one recording segment.
type Segment struct {
	Name   string
	Points []RawPoint
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// GeoPoint converts the raw values. Latitude and longitude are required;
// a missing elevation is taken as 0 and a missing time is left unset.
func (r RawPoint) GeoPoint() (geo.Point, error) {
	var p geo.Point
	lat, lon := strings.TrimSpace(r.Lat), strings.TrimSpace(r.Lon)
	if lat == "" || lon == "" {
		return p, fmt.Errorf("%w: missing coordinate (lat=%q lon=%q)", ErrMalformedPoint, r.Lat, r.Lon)
	}
	var err error
	if p.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return p, fmt.Errorf("%w: latitude %q: %v", ErrMalformedPoint, r.Lat, err)
	}
	if p.Lon, err = strconv.ParseFloat(lon, 64); err != nil {
		return p, fmt.Errorf("%w: longitude %q: %v", ErrMalformedPoint, r.Lon, err)
	}
	if ele := strings.TrimSpace(r.Ele); ele != "" {
		if p.Ele, err = strconv.ParseFloat(ele, 64); err != nil {
			return p, fmt.Errorf("%w: elevation %q: %v", ErrMalformedPoint, r.Ele, err)
		}
	}
	if ts := strings.TrimSpace(r.Time); ts != "" {
		if p.Time, err = parseTime(ts); err != nil {
			return p, fmt.Errorf("%w: time %q: %v", ErrMalformedPoint, r.Time, err)
		}
	}
	return p, nil
}

// Point is a position on a track together with the trip state accumulated
// up to it. The derived values are relative to the preceding point on the
// track; on the first point they are all zero.
type Point struct {
	geo.Point
	// Distance from the previous point, in metres
	Distance float64
	// TotalDistance from the start of the track, in metres
	TotalDistance float64
	// Climb is the total ascent from the start of the track, in metres
	Climb float64
	// Grade from the previous point, as a percentage
	Grade float64
	// Speed from the previous point, in km/h
	Speed float64
}

// next derives a Point for p following prev.
func next(prev Point, p geo.Point) Point {
	tp := Point{Point: p}
	tp.Distance = geo.Distance(p, prev.Point)
	tp.TotalDistance = prev.TotalDistance + tp.Distance
	tp.Climb = prev.Climb
	if climb := geo.Climb(p, prev.Point); climb > 0 {
		tp.Climb += climb
	}
	tp.Grade = geo.Grade(p, prev.Point)
	tp.Speed = geo.SpeedKmh(p, prev.Point)
	return tp
}

func (p Point) String() string {
	return fmt.Sprintf("speed = %6.2f grade = %6.2f distance = %6.1f %s", p.Speed, p.Grade, p.Distance, p.Point)
}
