// Package grid converts GPS positions to Ordnance Survey National Grid
// references.
package grid

import (
	"fmt"
	"math"

	"github.com/fofanov/go-osgb"

	"github.com/ray1729/gpx-profile/pkg/geo"
)

// Ref is a position on the British National Grid, in metres.
type Ref struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// String formats the reference with its 100km square letters, for example
// "TL 45200 58300". References off the grid are shown as plain numbers.
func (r Ref) String() string {
	e, n := int(math.Floor(r.Easting)), int(math.Floor(r.Northing))
	if e < 0 || e >= 700000 || n < 0 || n >= 1300000 {
		return fmt.Sprintf("%d, %d", e, n)
	}
	e100k, n100k := e/100000, n/100000
	l1 := (19 - n100k) - (19-n100k)%5 + (e100k+10)/5
	l2 := (19-n100k)*5%25 + e100k%5
	// the grid letters skip I
	if l1 > 7 {
		l1++
	}
	if l2 > 7 {
		l2++
	}
	return fmt.Sprintf("%c%c %05d %05d", 'A'+l1, 'A'+l2, e%100000, n%100000)
}

type Converter interface {
	ToNationalGrid(p geo.Point) (Ref, error)
}

type osgbConverter struct {
	trans osgb.CoordinateTransformer
}

// NewConverter returns a Converter using the OSTN15 transformation.
func NewConverter() (Converter, error) {
	trans, err := osgb.NewOSTN15Transformer()
	if err != nil {
		return nil, fmt.Errorf("error constructing coordinate transformer: %v", err)
	}
	return &osgbConverter{trans: trans}, nil
}

func (c *osgbConverter) ToNationalGrid(p geo.Point) (Ref, error) {
	gpsCoord := osgb.NewETRS89Coord(p.Lon, p.Lat, p.Ele)
	ngCoord, err := c.trans.ToNationalGrid(gpsCoord)
	if err != nil {
		return Ref{}, fmt.Errorf("error converting %v to National Grid: %v", p, err)
	}
	return Ref{Easting: ngCoord.Easting, Northing: ngCoord.Northing}, nil
}
