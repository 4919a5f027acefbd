// Package summary turns a GPX document into per-track summaries ready to
// serialise as JSON.
package summary

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ray1729/gpx-profile/pkg/bbox"
	"github.com/ray1729/gpx-profile/pkg/config"
	"github.com/ray1729/gpx-profile/pkg/geo"
	"github.com/ray1729/gpx-profile/pkg/gpxfile"
	"github.com/ray1729/gpx-profile/pkg/grid"
	"github.com/ray1729/gpx-profile/pkg/profile"
	"github.com/ray1729/gpx-profile/pkg/track"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

// TrackSummary describes one track. Distances are in metres, speeds in
// km/h and Duration in seconds.
type TrackSummary struct {
	Name        string            `json:"name"`
	Time        time.Time         `json:"time,omitzero"`
	Link        string            `json:"link,omitempty"`
	Cycling     bool              `json:"cycling,omitempty"`
	Bushwalking bool              `json:"bushwalking,omitempty"`
	Start       geo.Point         `json:"start"`
	Finish      geo.Point         `json:"finish"`
	StartGrid   string            `json:"start_grid,omitempty"`
	FinishGrid  string            `json:"finish_grid,omitempty"`
	Duration    float64           `json:"duration,omitempty"`
	Direction   string            `json:"direction"`
	Distance    float64           `json:"distance"`
	Climb       float64           `json:"climb"`
	Ascent      float64           `json:"ascent"`
	Descent     float64           `json:"descent"`
	MaxSpeed    float64           `json:"max_speed"`
	Box         bbox.Box          `json:"box"`
	BoxEdges    bbox.EdgeLengths  `json:"box_edges"`
	Waypoints   []waypoints.Match `json:"waypoints"`
	Labels      []profile.Label   `json:"labels"`
	Profile     *profile.Profile  `json:"profile"`
	Stats       track.Stats       `json:"stats"`
}

type Summarizer struct {
	cfg    *config.Config
	index  *waypoints.Index
	grid   grid.Converter
	logger *slog.Logger
}

type Option func(*Summarizer)

// WithWaypoints matches every track against the waypoints in ix as well as
// those in its own file.
func WithWaypoints(ix *waypoints.Index) Option {
	return func(s *Summarizer) {
		s.index = ix
	}
}

// WithGrid adds National Grid references for the start and finish.
func WithGrid(c grid.Converter) Option {
	return func(s *Summarizer) {
		s.grid = c
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSummarizer(cfg *config.Config, opt ...Option) *Summarizer {
	s := &Summarizer{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opt {
		o(s)
	}
	return s
}

// SummarizeTrack reads a GPX document and summarises each track segment
// that survives filtering.
func (s *Summarizer) SummarizeTrack(r io.Reader) ([]*TrackSummary, error) {
	f, err := gpxfile.Read(r)
	if err != nil {
		return nil, err
	}
	local, err := waypoints.FromGPX(f.Waypoints)
	if err != nil {
		return nil, fmt.Errorf("error reading waypoints: %w", err)
	}

	b := track.NewBuilder(s.cfg.BuilderOptions(s.logger)...)
	tracks, err := b.Build(f.Segments)
	if err != nil {
		return nil, err
	}
	stats := b.Stats()
	s.logger.Info("Built tracks", "name", f.Name, "tracks", len(tracks),
		"accepted", stats.Accepted, "rejected", stats.Rejected(), "discarded", stats.Discarded)

	radius := s.cfg.MatchRadius()
	summaries := make([]*TrackSummary, 0, len(tracks))
	for _, t := range tracks {
		matches := waypoints.Correlate(t, local, radius)
		if s.index != nil {
			matches = merge(matches, s.index.Correlate(t, radius))
		}
		ts, err := s.summarize(t, matches)
		if err != nil {
			return nil, err
		}
		ts.Time = f.Time
		ts.Link = f.Link
		ts.Stats = stats
		summaries = append(summaries, ts)
	}
	return summaries, nil
}

func (s *Summarizer) summarize(t *track.Track, matches []waypoints.Match) (*TrackSummary, error) {
	box, err := bbox.FromTrack(t, 0)
	if err != nil {
		return nil, fmt.Errorf("error computing bounding box of %q: %w", t.Name, err)
	}
	first, last := t.First(), t.Last()
	ts := TrackSummary{
		Name:        t.Name,
		Cycling:     s.cfg.Cycling,
		Bushwalking: s.cfg.Bushwalking,
		Start:       first.Point,
		Finish:      last.Point,
		Direction:   profile.Direction(t),
		Distance:    t.Distance,
		Climb:       t.Climb,
		Box:         box,
		BoxEdges:    box.EdgeLengths(),
		Waypoints:   matches,
		Profile:     profile.New(t, matches, s.cfg.Profile.Samples),
	}
	if ts.Waypoints == nil {
		ts.Waypoints = []waypoints.Match{}
	}
	ts.Ascent, ts.Descent = profile.AscentDescent(t.Elevations())
	ts.Duration = geo.Elapsed(last.Point, first.Point)
	for _, p := range t.Points() {
		if p.Speed > ts.MaxSpeed {
			ts.MaxSpeed = p.Speed
		}
	}
	ts.Labels = make([]profile.Label, 0, len(matches))
	if t.Distance > 0 {
		for _, m := range matches {
			ts.Labels = append(ts.Labels, profile.Label{Name: m.Name, Position: m.Distance * 100.0 / t.Distance})
		}
	}
	if s.grid != nil {
		ts.StartGrid = s.gridRef(first.Point)
		ts.FinishGrid = s.gridRef(last.Point)
	}
	return &ts, nil
}

func (s *Summarizer) gridRef(p geo.Point) string {
	ref, err := s.grid.ToNationalGrid(p)
	if err != nil {
		s.logger.Warn("Omitting grid reference", "point", p.String(), "error", err)
		return ""
	}
	return ref.String()
}

// merge combines two match lists each ordered by distance, keeping the
// first of any entries with the same name at the same distance.
func merge(a, b []waypoints.Match) []waypoints.Match {
	out := make([]waypoints.Match, 0, len(a)+len(b))
	seen := make(map[waypoints.Match]bool, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var m waypoints.Match
		if j >= len(b) || (i < len(a) && a[i].Distance <= b[j].Distance) {
			m = a[i]
			i++
		} else {
			m = b[j]
			j++
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
