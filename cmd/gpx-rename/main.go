package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ray1729/gpx-profile/pkg/gpxfile"
)

func main() {
	log.SetFlags(0)
	app := &cli.App{
		Name:      "gpx-rename",
		Usage:     "Prefix GPX file names with the local date of their first track point",
		ArgsUsage: "GPX_FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tz",
				Usage: "Time zone used to decide the date",
				Value: "Australia/Brisbane",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Print the new names without renaming anything",
			},
		},
		Action: func(c *cli.Context) error {
			loc, err := time.LoadLocation(c.String("tz"))
			if err != nil {
				return err
			}
			for _, filename := range c.Args().Slice() {
				newName, err := datedName(filename, loc)
				if err != nil {
					return err
				}
				if newName == filename {
					continue
				}
				fmt.Printf("%s -> %s\n", filename, newName)
				if c.Bool("dry-run") {
					continue
				}
				if err := os.Rename(filename, newName); err != nil {
					return err
				}
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var repeatedExt = regexp.MustCompile(`^(.*?\.gpx)(\.gpx)+$`)

// datedName returns the name filename should have: its base name, stripped
// of any dates it already carries, prefixed with the date it was recorded.
// Files without timed track points keep their name.
func datedName(filename string, loc *time.Location) (string, error) {
	start, err := firstTime(filename)
	if err != nil {
		return "", err
	}
	if start.IsZero() {
		return filename, nil
	}
	base := filepath.Base(filename)
	if m := repeatedExt.FindStringSubmatch(base); m != nil {
		base = m[1]
	}
	base = stripDates(base, start.In(loc))
	return filepath.Join(filepath.Dir(filename), start.In(loc).Format("2006-01-02")+"-"+base), nil
}

// stripDates removes runs of date stamps for day t, in any of the layouts
// people have used for file names, along with everything before them.
func stripDates(base string, t time.Time) string {
	layouts := []string{"2006-01-02", "2006_01_02", "02-01-2006", "02_01_2006"}
	dates := make([]string, len(layouts))
	for i, l := range layouts {
		dates[i] = regexp.QuoteMeta(t.Format(l))
	}
	re := regexp.MustCompile(`(?:(?:` + strings.Join(dates, "|") + `)[-_ ]+)+(.*)$`)
	if m := re.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return base
}

func firstTime(filename string) (time.Time, error) {
	r, err := os.Open(filename)
	if err != nil {
		return time.Time{}, fmt.Errorf("error opening %s for reading: %v", filename, err)
	}
	defer r.Close()
	f, err := gpxfile.Read(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("error reading GPS track %s: %v", filename, err)
	}
	for _, seg := range f.Segments {
		for _, p := range seg.Points {
			if p.Time == "" {
				continue
			}
			gp, err := p.GeoPoint()
			if err != nil {
				return time.Time{}, fmt.Errorf("error reading GPS track %s: %w", filename, err)
			}
			return gp.Time, nil
		}
	}
	return time.Time{}, nil
}
