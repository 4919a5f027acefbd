package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/ray1729/gpx-profile/pkg/profile"
	"github.com/ray1729/gpx-profile/pkg/track"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

// Config holds the settings shared by the commands.
type Config struct {
	// Cycling tightens the filters for bike rides and widens the waypoint
	// match radius
	Cycling bool `mapstructure:"cycling"`
	// Bushwalking is recorded in the output but does not change processing
	Bushwalking bool `mapstructure:"bushwalking"`
	// WaypointMatchRadius overrides the default radius when positive
	WaypointMatchRadius float64       `mapstructure:"waypoint_match_radius"`
	Filter              FilterConfig  `mapstructure:"filter"`
	Profile             ProfileConfig `mapstructure:"profile"`
	Log                 LogConfig     `mapstructure:"log"`
	Server              ServerConfig  `mapstructure:"server"`
}

type FilterConfig struct {
	MinMovement float64 `mapstructure:"min_movement"`
	MaxSpeed    float64 `mapstructure:"max_speed"`
	MaxGrade    float64 `mapstructure:"max_grade"`
}

type ProfileConfig struct {
	Samples int `mapstructure:"samples"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	// WaypointSources names the waypoint files or URLs a request may select
	WaypointSources map[string]string `mapstructure:"waypoint_sources"`
}

// Load reads configuration from filename, or when filename is empty from
// an optional gpx-profile.yaml in the working directory or
// $HOME/.config/gpx-profile, then from GPXPROFILE_* environment variables.
func Load(filename string) (*Config, error) {
	v := viper.New()

	v.SetDefault("cycling", false)
	v.SetDefault("bushwalking", false)
	v.SetDefault("waypoint_match_radius", 0.0)
	v.SetDefault("filter.min_movement", track.DefaultMinMovement)
	v.SetDefault("filter.max_speed", track.DefaultMaxSpeed)
	v.SetDefault("filter.max_grade", track.DefaultMaxGrade)
	v.SetDefault("profile.samples", profile.DefaultSamples)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.listen_addr", ":8000")

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", filename, err)
		}
	} else {
		v.SetConfigName("gpx-profile")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/gpx-profile")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	// GPXPROFILE_FILTER_MAX_SPEED -> filter.max_speed
	v.SetEnvPrefix("GPXPROFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []string

	if c.WaypointMatchRadius < 0 {
		errs = append(errs, fmt.Sprintf("waypoint_match_radius must not be negative, got %g", c.WaypointMatchRadius))
	}
	if c.Filter.MinMovement < 0 {
		errs = append(errs, fmt.Sprintf("filter.min_movement must not be negative, got %g", c.Filter.MinMovement))
	}
	if c.Filter.MaxSpeed <= 0 {
		errs = append(errs, fmt.Sprintf("filter.max_speed must be positive, got %g", c.Filter.MaxSpeed))
	}
	if c.Filter.MaxGrade <= 0 {
		errs = append(errs, fmt.Sprintf("filter.max_grade must be positive, got %g", c.Filter.MaxGrade))
	}
	if c.Profile.Samples <= 0 {
		errs = append(errs, fmt.Sprintf("profile.samples must be positive, got %d", c.Profile.Samples))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// MatchRadius is the distance in metres within which a track must pass a
// waypoint to be matched to it.
func (c *Config) MatchRadius() float64 {
	switch {
	case c.WaypointMatchRadius > 0:
		return c.WaypointMatchRadius
	case c.Cycling:
		return waypoints.CyclingRadius
	default:
		return waypoints.DefaultRadius
	}
}

// BuilderOptions configures a track.Builder from the filter settings.
func (c *Config) BuilderOptions(logger *slog.Logger) []track.Option {
	return []track.Option{
		track.WithCycling(c.Cycling),
		track.WithMinMovement(c.Filter.MinMovement),
		track.WithMaxSpeed(c.Filter.MaxSpeed),
		track.WithMaxGrade(c.Filter.MaxGrade),
		track.WithLogger(logger),
	}
}
