package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ray1729/gpx-profile/pkg/summary"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

func TestConstructRow(t *testing.T) {
	t.Parallel()
	ts := summary.TrackSummary{
		Name:      "Ely loop",
		Direction: "north-east",
		Distance:  52300,
		Climb:     210.4,
		Ascent:    198.6,
		Descent:   197.2,
		Duration:  7260,
		Waypoints: []waypoints.Match{{Name: "Lamb", Distance: 100}},
	}
	assert.Equal(t,
		[]string{"2024-05-04.json", "Ely loop", "north-east", "52.3", "210", "199", "197", "7260", "1"},
		constructRow("2024-05-04.json", ts))
}
