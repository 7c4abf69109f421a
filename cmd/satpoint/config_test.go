package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrack/sgp4"
)

const (
	issLine1 = "1 25544U 98067A   25025.00048859  .00033214  00000+0  57704-3 0  9996"
	issLine2 = "2 25544  51.6377 296.2827 0003104 141.8447 313.9175 15.50506992492954"
)

var now = time.Date(2025, 1, 25, 6, 0, 0, 0, time.UTC)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig([]string{"--tle", "iss.txt"}, now)
	require.NoError(t, err)

	assert.Equal(t, "point", cfg.mode)
	assert.Equal(t, "iss.txt", cfg.tleFile)
	assert.Equal(t, now, cfg.at)
	assert.Equal(t, now, cfg.start)
	assert.Equal(t, now.Add(24*time.Hour), cfg.end)
	assert.Equal(t, 10.0, cfg.minElevation)
	assert.Equal(t, time.Minute, cfg.step)
	assert.Empty(t, cfg.svg)

	sat, err := sgp4.Init(issLine1, issLine2, cfg.opts...)
	require.NoError(t, err)
	assert.Equal(t, sgp4.WGS84, sat.Model)
	assert.Equal(t, sgp4.OpsImproved, sat.OpsMode)
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := loadConfig([]string{
		"--tle", "active.json", "--sat", "25544",
		"--lat", "30.6715", "--lon", "-104.0227", "--alt", "2070",
		"passes",
		"--start", "2025-01-25T00:00:00Z", "--min-elevation", "20", "--step", "30s",
		"--gravity", "wgs72", "--opsmode", "afspc", "--svg", "pass.svg",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "passes", cfg.mode)
	assert.Equal(t, "25544", cfg.sat)
	assert.Equal(t, sgp4.Location{Latitude: 30.6715, Longitude: -104.0227, Altitude: 2070}, cfg.loc)
	start := time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start, cfg.start)
	assert.Equal(t, start.Add(24*time.Hour), cfg.end)
	assert.Equal(t, 20.0, cfg.minElevation)
	assert.Equal(t, 30*time.Second, cfg.step)
	assert.Equal(t, "pass.svg", cfg.svg)

	sat, err := sgp4.Init(issLine1, issLine2, cfg.opts...)
	require.NoError(t, err)
	assert.Equal(t, sgp4.WGS72, sat.Model)
	assert.Equal(t, sgp4.OpsAFSPC, sat.OpsMode)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("SATPOINT_TLE", "env.txt")
	t.Setenv("SATPOINT_MIN_ELEVATION", "25")
	t.Setenv("SATPOINT_LAT", "10")

	cfg, err := loadConfig([]string{"--lat", "20", "passes"}, now)
	require.NoError(t, err)
	assert.Equal(t, "env.txt", cfg.tleFile)
	assert.Equal(t, 25.0, cfg.minElevation)
	// flags win over the environment
	assert.Equal(t, 20.0, cfg.loc.Latitude)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "satpoint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tle: catalogue.txt
lat: 48.85
lon: 2.35
gravity: wgs72old
time: "2025-01-25T21:30:00+01:00"
`), 0o600))

	cfg, err := loadConfig([]string{"--config", path}, now)
	require.NoError(t, err)
	assert.Equal(t, "catalogue.txt", cfg.tleFile)
	assert.Equal(t, 48.85, cfg.loc.Latitude)
	assert.Equal(t, 2.35, cfg.loc.Longitude)
	assert.Equal(t, time.Date(2025, 1, 25, 20, 30, 0, 0, time.UTC), cfg.at)

	sat, err := sgp4.Init(issLine1, issLine2, cfg.opts...)
	require.NoError(t, err)
	assert.Equal(t, sgp4.WGS72Old, sat.Model)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{"--tle", "x", "orbit"}},
		{"no element set", []string{"point"}},
		{"unknown gravity model", []string{"--tle", "x", "--gravity", "egm96"}},
		{"unknown opsmode", []string{"--tle", "x", "--opsmode", "z"}},
		{"bad time", []string{"--tle", "x", "--time", "yesterday"}},
		{"bad end", []string{"--tle", "x", "--end", "2025-13-01T00:00:00Z"}},
		{"unknown flag", []string{"--tle", "x", "--frobnicate"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.args, now)
			assert.Error(t, err)
		})
	}
}
