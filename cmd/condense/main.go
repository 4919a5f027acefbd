package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ray1729/gpx-profile/pkg/summary"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

func main() {
	log.SetFlags(0)
	maxPOI := flag.Int("max-poi", 0, "Maximum number of waypoints")
	minDist := flag.Float64("min-dist", 0, "Minimum distance in metres between waypoints")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("Usage: %s [--max-poi=N] [--min-dist=M] SUMMARY.json", os.Args[0])
	}
	summaries, err := readTrackSummaries(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range summaries {
		fmt.Printf("%s: %s\n", s.Name, condense(s.Waypoints, *minDist, *maxPOI))
	}
}

func condense(matches []waypoints.Match, minDist float64, maxPOI int) string {
	if minDist > 0 {
		matches = waypoints.CondenseMinGap(matches, minDist)
	}
	if maxPOI > 0 {
		matches = waypoints.CondenseMax(matches, maxPOI)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

func readTrackSummaries(filename string) ([]summary.TrackSummary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var summaries []summary.TrackSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, fmt.Errorf("error parsing %s: %v", filename, err)
	}
	return summaries, nil
}
