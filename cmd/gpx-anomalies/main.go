package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ray1729/gpx-profile/pkg/config"
	"github.com/ray1729/gpx-profile/pkg/gpxfile"
	"github.com/ray1729/gpx-profile/pkg/grid"
	"github.com/ray1729/gpx-profile/pkg/logging"
	"github.com/ray1729/gpx-profile/pkg/track"
)

func main() {
	log.SetFlags(0)
	app := &cli.App{
		Name:  "gpx-anomalies",
		Usage: "Find repeated points in a GPX track",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "gpx-file",
				Aliases:  []string{"g"},
				Usage:    "Name of GPX file to process",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Read configuration from `FILE`",
			},
			&cli.Float64Flag{
				Name:    "fuzz",
				Aliases: []string{"f"},
				Usage:   "Consider two points coincident if they are within FUZZ kilometres of each other",
				Value:   0.005,
			},
			&cli.Float64Flag{
				Name:    "min-distance",
				Aliases: []string{"min"},
				Usage:   "Only show repeats that appear at least MIN kilometers apart",
				Value:   0.1,
			},
			&cli.Float64Flag{
				Name:    "max-distance",
				Aliases: []string{"max"},
				Usage:   "Do not show repeats that appear more than MAX kilometers apart",
				Value:   5.0,
			},
			&cli.BoolFlag{
				Name:  "national-grid",
				Usage: "Report positions as Ordnance Survey National Grid references",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			logger := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			var conv grid.Converter
			if c.Bool("national-grid") {
				if conv, err = grid.NewConverter(); err != nil {
					return err
				}
			}
			tracks, err := readGPXTracks(c.String("gpx-file"), track.NewBuilder(cfg.BuilderOptions(logger)...))
			if err != nil {
				return err
			}
			for _, t := range tracks {
				revisits := t.Revisits(
					c.Float64("fuzz")*1000.0,
					c.Float64("min-distance")*1000.0,
					c.Float64("max-distance")*1000.0,
				)
				report(os.Stdout, t.Name, revisits, conv)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func report(w io.Writer, name string, revisits []track.Revisit, conv grid.Converter) {
	for _, r := range revisits {
		where := fmt.Sprintf("(%.5f, %.5f)", r.Point.Lat, r.Point.Lon)
		if conv != nil {
			if ref, err := conv.ToNationalGrid(r.Point); err == nil {
				where = ref.String()
			}
		}
		fmt.Fprintf(w, "%s: point %s revisited at %0.2f km and %0.2f km\n",
			name, where, r.First/1000.0, r.Second/1000.0)
	}
}

func readGPXTracks(filename string, b *track.Builder) ([]*track.Track, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening %s for reading: %v", filename, err)
	}
	defer r.Close()
	f, err := gpxfile.Read(r)
	if err != nil {
		return nil, fmt.Errorf("error reading GPS track %s: %v", filename, err)
	}
	tracks, err := b.Build(f.Segments)
	if err != nil {
		return nil, fmt.Errorf("error building tracks from %s: %w", filename, err)
	}
	return tracks, nil
}
