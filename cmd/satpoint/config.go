package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skytrack/sgp4"
)

type config struct {
	mode    string
	tleFile string
	sat     string
	loc     sgp4.Location
	at      time.Time
	opts    []sgp4.Option

	start, end   time.Time
	minElevation float64
	step         time.Duration
	svg          string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("satpoint", pflag.ContinueOnError)
	fs.String("config", "", "config file (TOML, YAML or JSON)")
	fs.String("tle", "", "element set file, TLE text or OMM JSON (.json)")
	fs.String("sat", "", "satellite name or catalogue number when the file holds several")
	fs.Float64("lat", 0, "observer latitude, degrees north")
	fs.Float64("lon", 0, "observer longitude, degrees east")
	fs.Float64("alt", 0, "observer altitude, meters")
	fs.String("time", "", "instant for point mode, RFC 3339 (default now)")
	fs.String("gravity", "wgs84", "gravity model: wgs72old, wgs72 or wgs84")
	fs.String("opsmode", "i", "a for AFSPC compatible, i for improved")
	fs.String("start", "", "start of the pass search, RFC 3339 (default now)")
	fs.String("end", "", "end of the pass search, RFC 3339 (default start + 24h)")
	fs.Float64("min-elevation", 10, "minimum pass elevation, degrees")
	fs.Duration("step", time.Minute, "pass search step")
	fs.String("svg", "", "write the polar plot of the first pass to this file")
	return fs
}

// loadConfig merges flags, SATPOINT_* environment variables and the optional
// config file, in that order of precedence.
func loadConfig(args []string, now time.Time) (*config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("SATPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", file)
		}
	}

	c := &config{
		mode:    "point",
		tleFile: v.GetString("tle"),
		sat:     v.GetString("sat"),
		loc: sgp4.Location{
			Latitude:  v.GetFloat64("lat"),
			Longitude: v.GetFloat64("lon"),
			Altitude:  v.GetFloat64("alt"),
		},
		minElevation: v.GetFloat64("min-elevation"),
		step:         v.GetDuration("step"),
		svg:          v.GetString("svg"),
	}
	if fs.NArg() > 0 {
		c.mode = fs.Arg(0)
	}
	if c.mode != "point" && c.mode != "passes" {
		return nil, errors.Errorf("unknown mode %q, want point or passes", c.mode)
	}
	if c.tleFile == "" {
		return nil, errors.New("no element set file given (--tle)")
	}

	model, ok := sgp4.ParseGravityModel(v.GetString("gravity"))
	if !ok {
		return nil, errors.Errorf("unknown gravity model %q", v.GetString("gravity"))
	}
	var ops sgp4.OpsMode
	switch strings.ToLower(v.GetString("opsmode")) {
	case "a", "afspc":
		ops = sgp4.OpsAFSPC
	case "i", "improved", "":
		ops = sgp4.OpsImproved
	default:
		return nil, errors.Errorf("unknown opsmode %q", v.GetString("opsmode"))
	}
	c.opts = []sgp4.Option{sgp4.WithGravity(model), sgp4.WithOpsMode(ops)}

	var err error
	if c.at, err = parseTime(v.GetString("time"), now); err != nil {
		return nil, errors.Wrap(err, "time")
	}
	if c.start, err = parseTime(v.GetString("start"), now); err != nil {
		return nil, errors.Wrap(err, "start")
	}
	if c.end, err = parseTime(v.GetString("end"), c.start.Add(24*time.Hour)); err != nil {
		return nil, errors.Wrap(err, "end")
	}
	return c, nil
}

func parseTime(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
