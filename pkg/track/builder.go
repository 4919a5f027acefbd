package track

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

const (
	// DefaultMinMovement is the distance in metres a point must be from the
	// last accepted point to count as movement rather than receiver jitter.
	// Slow switchbacks can fall below it.
	DefaultMinMovement = 10.0
	// DefaultMaxSpeed in km/h above which a point is taken to be a jump
	// while the receiver reacquires its position.
	DefaultMaxSpeed = 100.0
	// DefaultMaxGrade is the steepest plausible grade, as a percentage, when
	// cycling.
	DefaultMaxGrade = 25.0
)

// Stats counts what happened to the points passed to a Builder.
type Stats struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicate_time"`
	Jitter     int `json:"jitter"`
	Glitches   int `json:"glitches"`
	// Discarded segments ended up with fewer than two points
	Discarded int `json:"discarded_segments"`
}

func (s Stats) Rejected() int {
	return s.Duplicates + s.Jitter + s.Glitches
}

type config struct {
	cycling     bool
	minMovement float64
	maxSpeed    float64
	maxGrade    float64
	logger      *slog.Logger
}

type Option func(*config)

// WithCycling turns on the grade check, which rejects points implying a
// grade steeper than a bike can ride.
func WithCycling(b bool) Option {
	return func(c *config) {
		c.cycling = b
	}
}

func WithMinMovement(m float64) Option {
	return func(c *config) {
		c.minMovement = m
	}
}

func WithMaxSpeed(kmh float64) Option {
	return func(c *config) {
		c.maxSpeed = kmh
	}
}

func WithMaxGrade(pct float64) Option {
	return func(c *config) {
		c.maxGrade = pct
	}
}

// WithLogger sets where rejected points are reported, at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Builder turns raw track segments into filtered Tracks. A Builder is not
// safe for concurrent use.
type Builder struct {
	c     config
	stats Stats
}

func NewBuilder(opt ...Option) *Builder {
	c := config{
		minMovement: DefaultMinMovement,
		maxSpeed:    DefaultMaxSpeed,
		maxGrade:    DefaultMaxGrade,
	}
	for _, f := range opt {
		f(&c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{c: c}
}

// Stats returns the counts accumulated over every segment built so far.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Build builds a Track from each segment, returning them in input order.
// Segments that do not yield a track are left out.
func (b *Builder) Build(segments []Segment) ([]*Track, error) {
	var tracks []*Track
	for i, seg := range segments {
		t, err := b.BuildSegment(seg.Name, seg.Points)
		if err != nil {
			return nil, fmt.Errorf("segment %d of %q: %w", i, seg.Name, err)
		}
		if t != nil {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

// BuildSegment filters the raw points of one segment into a Track. Each
// point is compared with the last point accepted; points that are not
// accepted never become the reference, so a run of bad points is measured
// against the same good point until a plausible one turns up.
//
// It returns nil without an error if fewer than two points survive.
func (b *Builder) BuildSegment(name string, raw []RawPoint) (*Track, error) {
	log := b.c.logger.With("track", name)
	if len(raw) < 2 {
		log.Debug("Skipping short segment", "points", len(raw))
		b.stats.Discarded++
		return nil, nil
	}
	first, err := raw[0].GeoPoint()
	if err != nil {
		return nil, fmt.Errorf("point 0: %w", err)
	}
	last := Point{Point: first}
	points := []Point{last}

	for i := 1; i < len(raw); i++ {
		gp, err := raw[i].GeoPoint()
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		p := next(last, gp)

		// Receivers sometimes log two fixes with the same timestamp
		if p.HasTime() && last.HasTime() && p.Time.Equal(last.Time) {
			log.Debug("Dropping point with duplicate time", "index", i, "time", p.Time)
			b.stats.Duplicates++
			continue
		}

		if p.Distance < b.c.minMovement {
			b.stats.Jitter++
			continue
		}

		// A jump usually means the receiver is reacquiring its position
		if p.Speed > b.c.maxSpeed || (b.c.cycling && math.Abs(p.Grade) > b.c.maxGrade) {
			log.Debug("Dropping point", "index", i, "reference", last.String(), "point", p.String())
			b.stats.Glitches++
			continue
		}

		points = append(points, p)
		last = p
	}

	if len(points) < 2 {
		log.Debug("No movement in segment", "points", len(raw))
		b.stats.Discarded++
		return nil, nil
	}
	b.stats.Accepted += len(points)
	return NewTrack(name, points), nil
}
