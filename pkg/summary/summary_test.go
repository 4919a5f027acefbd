package summary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray1729/gpx-profile/pkg/config"
	"github.com/ray1729/gpx-profile/pkg/geo"
	"github.com/ray1729/gpx-profile/pkg/grid"
	"github.com/ray1729/gpx-profile/pkg/track"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

// Points 0.0005 degrees (about 55.6m) apart heading north, 20s apart.
func sampleGPX() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
<metadata><name>Grantchester</name><link href="https://example.com/routes/1"></link></metadata>
<wpt lat="52.2010" lon="0.1000"><name>Mill</name></wpt>
<trk><trkseg>
`)
	start := time.Date(2024, 5, 4, 9, 0, 0, 0, time.UTC)
	for i, ele := range []float64{10, 12, 14, 13, 15, 16} {
		fmt.Fprintf(&b, `<trkpt lat="%.4f" lon="0.1000"><ele>%.0f</ele><time>%s</time></trkpt>`+"\n",
			52.2+float64(i)*0.0005, ele, start.Add(time.Duration(i)*20*time.Second).Format(time.RFC3339))
	}
	b.WriteString("</trkseg></trk>\n</gpx>\n")
	return b.String()
}

type fakeGrid struct{}

func (fakeGrid) ToNationalGrid(p geo.Point) (grid.Ref, error) {
	if p.Lat > 52.202 {
		return grid.Ref{}, errors.New("outside transformation grid")
	}
	return grid.Ref{Easting: 545000, Northing: 258000}, nil
}

func defaultConfig() *config.Config {
	return &config.Config{
		Filter: config.FilterConfig{
			MinMovement: track.DefaultMinMovement,
			MaxSpeed:    track.DefaultMaxSpeed,
			MaxGrade:    track.DefaultMaxGrade,
		},
		Profile: config.ProfileConfig{Samples: 10},
	}
}

func TestSummarizeTrack(t *testing.T) {
	t.Parallel()
	ix := waypoints.NewIndex([]waypoints.Waypoint{
		{Name: "Pub", Point: geo.Point{Lat: 52.2025, Lon: 0.1001}},
		{Name: "Far", Point: geo.Point{Lat: 53.0, Lon: 0.1}},
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s := NewSummarizer(defaultConfig(), WithWaypoints(ix), WithGrid(fakeGrid{}), WithLogger(logger))

	got, err := s.SummarizeTrack(strings.NewReader(sampleGPX()))
	require.NoError(t, err)
	require.Len(t, got, 1)
	ts := got[0]

	step := geo.Distance(geo.Point{Lat: 52.2, Lon: 0.1}, geo.Point{Lat: 52.2005, Lon: 0.1})
	assert.Equal(t, "Grantchester", ts.Name)
	assert.Equal(t, "https://example.com/routes/1", ts.Link)
	assert.Equal(t, "north", ts.Direction)
	assert.InDelta(t, 5*step, ts.Distance, 1e-6)
	assert.InDelta(t, 7.0, ts.Climb, 1e-9)
	assert.Equal(t, 100.0, ts.Duration)
	assert.InDelta(t, step/20*3.6, ts.MaxSpeed, 1e-6)
	assert.Equal(t, 52.2, ts.Start.Lat)
	assert.InDelta(t, 52.2025, ts.Finish.Lat, 1e-9)

	names := make([]string, len(ts.Waypoints))
	for i, m := range ts.Waypoints {
		names[i] = m.Name
	}
	if diff := cmp.Diff([]string{"Mill", "Pub"}, names); diff != "" {
		t.Errorf("waypoints mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, ts.Labels, 2)
	assert.InDelta(t, 40.0, ts.Labels[0].Position, 1e-6)
	assert.InDelta(t, 100.0, ts.Labels[1].Position, 1e-6)

	assert.Equal(t, "TL 45000 58000", ts.StartGrid)
	assert.Empty(t, ts.FinishGrid)
	assert.Contains(t, logs.String(), "Omitting grid reference")

	assert.Equal(t, 6, ts.Stats.Accepted)
	assert.InDelta(t, 52.2, ts.Box.South, 1e-9)
	assert.InDelta(t, 52.2025, ts.Box.North, 1e-9)
	assert.InDelta(t, 5*step, ts.BoxEdges.West, 1e-3)
	require.NotNil(t, ts.Profile)
	assert.Len(t, ts.Profile.Samples, 10)
	assert.Equal(t, 10.0, ts.Profile.MinEle)

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"direction":"north"`)
	assert.NotContains(t, string(data), `"finish_grid"`)
}

func TestSummarizeTrackErrors(t *testing.T) {
	t.Parallel()
	s := NewSummarizer(defaultConfig())

	_, err := s.SummarizeTrack(strings.NewReader("not xml"))
	assert.Error(t, err)

	bad := strings.Replace(sampleGPX(), `lat="52.2010"`, `lat="north"`, 1)
	_, err = s.SummarizeTrack(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestSummarizeTrackNoWaypoints(t *testing.T) {
	t.Parallel()
	cfg := defaultConfig()
	cfg.Cycling = true
	gpx := strings.Replace(sampleGPX(), `<wpt lat="52.2010" lon="0.1000"><name>Mill</name></wpt>`, "", 1)
	got, err := NewSummarizer(cfg).SummarizeTrack(strings.NewReader(gpx))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Cycling)
	assert.Empty(t, got[0].Waypoints)
	assert.NotNil(t, got[0].Waypoints)
	assert.Empty(t, got[0].StartGrid)
}

func TestMerge(t *testing.T) {
	t.Parallel()
	a := []waypoints.Match{{Name: "A", Distance: 10}, {Name: "C", Distance: 30}}
	b := []waypoints.Match{{Name: "B", Distance: 20}, {Name: "C", Distance: 30}, {Name: "D", Distance: 40}}
	want := []waypoints.Match{
		{Name: "A", Distance: 10},
		{Name: "B", Distance: 20},
		{Name: "C", Distance: 30},
		{Name: "D", Distance: 40},
	}
	if diff := cmp.Diff(want, merge(a, b)); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, merge(nil, nil))
}
