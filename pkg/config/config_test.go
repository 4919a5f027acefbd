package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray1729/gpx-profile/pkg/track"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Cycling)
	assert.Equal(t, track.DefaultMinMovement, cfg.Filter.MinMovement)
	assert.Equal(t, track.DefaultMaxSpeed, cfg.Filter.MaxSpeed)
	assert.Equal(t, track.DefaultMaxGrade, cfg.Filter.MaxGrade)
	assert.Equal(t, 100, cfg.Profile.Samples)
	assert.Equal(t, ":8000", cfg.Server.ListenAddr)
	assert.Equal(t, waypoints.DefaultRadius, cfg.MatchRadius())
}

func TestLoadFileAndEnv(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "ride.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(`
cycling: true
filter:
  min_movement: 5
log:
  level: debug
`), 0644))
	t.Setenv("GPXPROFILE_FILTER_MAX_SPEED", "80")

	cfg, err := Load(filename)
	require.NoError(t, err)
	assert.True(t, cfg.Cycling)
	assert.Equal(t, 5.0, cfg.Filter.MinMovement)
	assert.Equal(t, 80.0, cfg.Filter.MaxSpeed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, waypoints.CyclingRadius, cfg.MatchRadius())

	cfg.WaypointMatchRadius = 50
	assert.Equal(t, 50.0, cfg.MatchRadius())
	assert.Len(t, cfg.BuilderOptions(nil), 5)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	cfg := Config{
		WaypointMatchRadius: -1,
		Filter:              FilterConfig{MinMovement: -1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"waypoint_match_radius", "filter.min_movement", "filter.max_speed", "filter.max_grade", "profile.samples"} {
		assert.Contains(t, err.Error(), field)
	}
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}
