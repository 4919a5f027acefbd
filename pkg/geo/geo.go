// Package geo holds the geographic point type and the pairwise
// calculations used when processing GPS tracks. All distances are on a
// spherical Earth.
package geo

import (
	"fmt"
	"math"
	"time"
)

// EarthRadius in metres
const EarthRadius = 6371000.0

// Offset in degrees used to linearise distances around a point
const perturbation = 0.0002

// Point is a position reported by a GPS receiver. A zero Time means the
// receiver did not record one.
type Point struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Ele  float64   `json:"ele"`
	Time time.Time `json:"time,omitzero"`
}

func (p Point) HasTime() bool {
	return !p.Time.IsZero()
}

func (p Point) String() string {
	if p.HasTime() {
		return fmt.Sprintf("(%.6f, %.6f, %.1fm) %s", p.Lat, p.Lon, p.Ele, p.Time.Format(time.RFC3339))
	}
	return fmt.Sprintf("(%.6f, %.6f, %.1fm)", p.Lat, p.Lon, p.Ele)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Distance returns the great-circle distance in metres between a and b,
// calculated with the haversine formula.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	h := sLat*sLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sLon*sLon
	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceSpherical returns the distance in metres between a and b using
// the spherical law of cosines. It loses precision for points only a few
// metres apart; prefer Distance.
func DistanceSpherical(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)
	c := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	// rounding can push c fractionally outside [-1, 1]
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * EarthRadius
}

// Bearing returns the initial compass bearing in degrees [0, 360) for a
// great-circle path from a to b.
func Bearing(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(degrees(math.Atan2(y, x))+360, 360)
}

// Elapsed returns the seconds from b to a, or 0 if either point has no time.
func Elapsed(a, b Point) float64 {
	if !a.HasTime() || !b.HasTime() {
		return 0
	}
	return a.Time.Sub(b.Time).Seconds()
}

// Climb returns the elevation gained going from b to a. It is negative for
// a descent.
func Climb(a, b Point) float64 {
	return a.Ele - b.Ele
}

// Grade returns the slope between the points as a signed percentage. Points
// at the same position have a grade of 0.
func Grade(a, b Point) float64 {
	d := Distance(a, b)
	if d == 0 {
		return 0
	}
	return 100 * Climb(a, b) / d
}

// SpeedMps returns the speed in metres per second needed to travel between
// the points in the time between them, or 0 if that time is unknown.
func SpeedMps(a, b Point) float64 {
	t := Elapsed(a, b)
	if t == 0 {
		return 0
	}
	return math.Abs(Distance(a, b) / t)
}

// SpeedKmh is SpeedMps in kilometres per hour.
func SpeedKmh(a, b Point) float64 {
	return SpeedMps(a, b) * 3.6
}

// DegreesPerMetre returns how many degrees of latitude and longitude
// correspond to metres of ground distance in the neighbourhood of p. Each
// axis is measured separately by moving a small step away from p, so the
// result only holds near p.
func DegreesPerMetre(p Point, metres float64) (lat, lon float64) {
	q := p
	q.Lon += perturbation
	lon = metres * perturbation / Distance(p, q)

	q = p
	q.Lat += perturbation
	lat = metres * perturbation / Distance(p, q)
	return lat, lon
}
