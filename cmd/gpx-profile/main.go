package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ray1729/gpx-profile/pkg/config"
	"github.com/ray1729/gpx-profile/pkg/grid"
	"github.com/ray1729/gpx-profile/pkg/logging"
	"github.com/ray1729/gpx-profile/pkg/summary"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

func main() {
	log.SetFlags(0)
	app := &cli.App{
		Name:      "gpx-profile",
		Usage:     "Summarise GPX tracks and the waypoints they pass",
		ArgsUsage: "GPX_FILE_OR_DIRECTORY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Read configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "cycling",
				Usage: "Treat the tracks as bike rides",
			},
			&cli.BoolFlag{
				Name:  "bushwalking",
				Usage: "Mark the tracks as bushwalks",
			},
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Match waypoints within `METRES` of the track",
			},
			&cli.StringFlag{
				Name:    "waypoints",
				Aliases: []string{"w"},
				Usage:   "GPX file or URL of waypoints to match in addition to those in each file",
			},
			&cli.IntFlag{
				Name:  "samples",
				Usage: "Number of points in the altitude profile",
			},
			&cli.BoolFlag{
				Name:  "national-grid",
				Usage: "Add Ordnance Survey National Grid references for the start and finish",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "One of debug, info, warn or error",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("Usage: %s [options] GPX_FILE_OR_DIRECTORY", c.App.Name), 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	opts := []summary.Option{summary.WithLogger(logger)}
	if source := c.String("waypoints"); source != "" {
		ix, err := waypoints.NewCache(waypoints.WithCacheLogger(logger)).Get(source)
		if err != nil {
			return err
		}
		opts = append(opts, summary.WithWaypoints(ix))
	}
	if c.Bool("national-grid") {
		conv, err := grid.NewConverter()
		if err != nil {
			return err
		}
		opts = append(opts, summary.WithGrid(conv))
	}
	gs := summary.NewSummarizer(cfg, opts...)

	inFile := c.Args().First()
	info, err := os.Stat(inFile)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return summarizeDirectory(gs, inFile)
	}
	return summarizeSingleFile(gs, inFile, os.Stdout)
}

// loadConfig reads the configuration and applies any flags given on the
// command line over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("cycling") {
		cfg.Cycling = c.Bool("cycling")
	}
	if c.IsSet("bushwalking") {
		cfg.Bushwalking = c.Bool("bushwalking")
	}
	if c.IsSet("radius") {
		cfg.WaypointMatchRadius = c.Float64("radius")
	}
	if c.IsSet("samples") {
		cfg.Profile.Samples = c.Int("samples")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// summarizeDirectory writes a summary of each GPX file in dirName alongside
// it, replacing the .gpx extension with .json.
func summarizeDirectory(gs *summary.Summarizer, dirName string) error {
	files, err := os.ReadDir(dirName)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".gpx" {
			continue
		}
		filename := filepath.Join(dirName, f.Name())
		outfile := filename[:len(filename)-4] + ".json"
		wc, err := os.OpenFile(outfile, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
		if err != nil {
			return fmt.Errorf("error creating output file %s: %v", outfile, err)
		}
		if err = summarizeSingleFile(gs, filename, wc); err != nil {
			wc.Close()
			return err
		}
		if err = wc.Close(); err != nil {
			return fmt.Errorf("error closing file %s: %v", outfile, err)
		}
	}
	return nil
}

func summarizeSingleFile(gs *summary.Summarizer, filename string, w io.Writer) error {
	r, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("error opening %s for reading: %v", filename, err)
	}
	defer r.Close()
	summaries, err := gs.SummarizeTrack(r)
	if err != nil {
		return fmt.Errorf("error creating summary of GPX track %s: %w", filename, err)
	}
	if err = writeSummary(summaries, w); err != nil {
		return fmt.Errorf("error marshalling summary for %s: %v", filename, err)
	}
	return nil
}

func writeSummary(s []*summary.TrackSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(s)
}
