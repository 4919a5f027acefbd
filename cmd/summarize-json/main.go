package main

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ray1729/gpx-profile/pkg/summary"
)

func main() {
	log.SetFlags(0)
	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"file", "name", "direction", "distance_km", "climb_m", "ascent_m", "descent_m", "duration_s", "waypoints"})
	for _, filename := range os.Args[1:] {
		summaries, err := readTrackSummaries(filename)
		if err != nil {
			log.Fatal(err)
		}
		for _, ts := range summaries {
			w.Write(constructRow(filepath.Base(filename), ts))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal(err)
	}
}

func constructRow(filename string, ts summary.TrackSummary) []string {
	return []string{
		filename,
		ts.Name,
		ts.Direction,
		strconv.FormatFloat(ts.Distance/1000.0, 'f', 1, 64),
		strconv.FormatFloat(ts.Climb, 'f', 0, 64),
		strconv.FormatFloat(ts.Ascent, 'f', 0, 64),
		strconv.FormatFloat(ts.Descent, 'f', 0, 64),
		strconv.FormatFloat(ts.Duration, 'f', 0, 64),
		strconv.Itoa(len(ts.Waypoints)),
	}
}

func readTrackSummaries(path string) ([]summary.TrackSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var summaries []summary.TrackSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
