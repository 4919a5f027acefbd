package bbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray1729/gpx-profile/pkg/geo"
	"github.com/ray1729/gpx-profile/pkg/track"
)

func TestFromPoint(t *testing.T) {
	t.Parallel()
	p := geo.Point{Lat: -27.5, Lon: 153.0}
	b := FromPoint(p, 20)
	assert.True(t, b.Contains(p))
	assert.Less(t, b.South, b.North)
	assert.Less(t, b.West, b.East)
	assert.InDelta(t, p.Lat, (b.North+b.South)/2, 1e-12)
	assert.InDelta(t, p.Lon, (b.East+b.West)/2, 1e-12)

	edges := b.EdgeLengths()
	assert.InDelta(t, 40, edges.East, 0.01)
	assert.InDelta(t, 40, edges.West, 0.01)
	assert.InDelta(t, 40, edges.North, 0.1)
	assert.InDelta(t, 40, edges.South, 0.1)

	zero := FromPoint(p, 0)
	assert.Equal(t, Box{North: p.Lat, South: p.Lat, East: p.Lon, West: p.Lon}, zero)
	assert.True(t, zero.Contains(p))
}

func TestContains(t *testing.T) {
	t.Parallel()
	b := Box{North: 10, South: -10, East: 20, West: -20}
	for _, c := range b.Corners() {
		assert.True(t, b.Contains(c), "corner %v", c)
	}
	assert.True(t, b.Contains(geo.Point{}))

	outside := []geo.Point{
		{Lat: 11, Lon: 0},
		{Lat: -11, Lon: 0},
		{Lat: 0, Lon: 21},
		{Lat: 0, Lon: -21},
	}
	for _, p := range outside {
		assert.False(t, b.Contains(p), "point %v", p)
	}
}

func TestFromPoints(t *testing.T) {
	t.Parallel()
	points := []geo.Point{
		{Lat: 60.1, Lon: 10.0},
		{Lat: 60.0, Lon: 10.3},
		{Lat: 59.8, Lon: 10.1},
		{Lat: 60.0, Lon: 9.9},
	}
	b, err := FromPoints(points, 0)
	require.NoError(t, err)
	assert.Equal(t, Box{North: 60.1, South: 59.8, East: 10.3, West: 9.9}, b)

	padded, err := FromPoints(points, 100)
	require.NoError(t, err)
	for _, p := range points {
		assert.True(t, padded.Contains(p))
	}
	// each edge is 100m beyond the point that defines it
	assert.InDelta(t, 100, geo.Distance(geo.Point{Lat: 60.1, Lon: 10.0}, geo.Point{Lat: padded.North, Lon: 10.0}), 0.01)
	assert.InDelta(t, 100, geo.Distance(geo.Point{Lat: 59.8, Lon: 10.1}, geo.Point{Lat: padded.South, Lon: 10.1}), 0.01)
	assert.InDelta(t, 100, geo.Distance(geo.Point{Lat: 60.0, Lon: 10.3}, geo.Point{Lat: 60.0, Lon: padded.East}), 0.01)
	assert.InDelta(t, 100, geo.Distance(geo.Point{Lat: 60.0, Lon: 9.9}, geo.Point{Lat: 60.0, Lon: padded.West}), 0.01)

	_, err = FromPoints(nil, 10)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestFromTrack(t *testing.T) {
	t.Parallel()
	tr := track.NewTrack("loop", []track.Point{
		{Point: geo.Point{Lat: 1, Lon: 1}},
		{Point: geo.Point{Lat: 2, Lon: 3}, TotalDistance: 250000},
	})
	b, err := FromTrack(tr, 0)
	require.NoError(t, err)
	assert.Equal(t, Box{North: 2, South: 1, East: 3, West: 1}, b)
}

type named struct {
	name string
	at   geo.Point
}

func TestFilter(t *testing.T) {
	t.Parallel()
	b := Box{North: 1, South: -1, East: 1, West: -1}
	xs := []named{
		{"c", geo.Point{Lat: 0.5}},
		{"out", geo.Point{Lat: 5}},
		{"a", geo.Point{Lon: -1}},
		{"b", geo.Point{Lat: 1, Lon: 1}},
		{"far", geo.Point{Lat: 0, Lon: 2}},
	}
	got := Filter(b, xs, func(x named) geo.Point { return x.at })
	var names []string
	for _, x := range got {
		names = append(names, x.name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
	assert.Empty(t, Filter(b, []named{{"none", geo.Point{Lat: 3}}}, func(x named) geo.Point { return x.at }))
}
