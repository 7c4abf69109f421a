// Command satpoint points a telescope at an artificial satellite: it prints
// the topocentric RA/Dec, horizon coordinates and tracking rates at one
// instant, or lists the passes over the observer.
//
//	satpoint --tle iss.txt --lat 30.6715 --lon -104.0227 --alt 2070 point
//	satpoint --tle active.json --sat 25544 --lat 48.85 --lon 2.35 --svg pass.svg passes
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	kitlog "github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/skytrack/sgp4"
)

const dateFormat = "2006-01-02 15:04:05"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

func main() {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	cfg, err := loadConfig(os.Args[1:], time.Now().UTC())
	if err != nil {
		logger.Log("msg", "invalid configuration", "err", err)
		os.Exit(2)
	}

	sat, err := loadSatellite(cfg.tleFile, cfg.sat, cfg.opts...)
	if err != nil {
		logger.Log("msg", "cannot load satellite", "file", cfg.tleFile, "err", err, "code", sgp4.Code(err))
		os.Exit(1)
	}
	logger = kitlog.With(logger, "satnum", sat.SatNum)
	logger.Log("msg", "satellite initialized", "name", sat.Name, "epoch", sat.EpochTime().Format(time.RFC3339),
		"method", sat.Method, "resonance", sat.Resonance, "gravity", sat.Model)
	if sat.Error != 0 {
		logger.Log("msg", "propagation to epoch failed", "error_code", sat.Error)
	}

	obs, err := sgp4.NewObserver(&cfg.loc)
	if err != nil {
		logger.Log("msg", "invalid observer", "err", err)
		os.Exit(2)
	}

	switch cfg.mode {
	case "point":
		err = point(sat, obs, cfg.at)
	case "passes":
		err = passes(logger, sat, obs, cfg)
	}
	if err != nil {
		logger.Log("msg", cfg.mode+" failed", "err", err, "code", sgp4.Code(err))
		os.Exit(1)
	}
}

// loadSatellite reads a TLE catalogue or, for .json files, an OMM array,
// and initializes the entry matching want (name or catalogue number). An
// empty want selects the first entry.
func loadSatellite(path, want string, opts ...sgp4.Option) (*sgp4.Satellite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		omms, err := sgp4.ParseOMMs(data)
		if err != nil {
			return nil, err
		}
		for i := range omms {
			if matches(want, omms[i].ObjectName, strconv.Itoa(omms[i].NoradCatID)) {
				return omms[i].Satellite(opts...)
			}
		}
		return nil, errors.Errorf("%s: no OMM for %q", path, want)
	}

	tles, err := sgp4.ReadTLEs(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for _, tle := range tles {
		if matches(want, tle.Name, strings.TrimSpace(tle.Line1[2:7])) {
			return tle.Satellite(opts...)
		}
	}
	return nil, errors.Errorf("%s: no element set for %q", path, want)
}

func matches(want, name, satnum string) bool {
	if want == "" || want == satnum {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(name))
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func point(sat *sgp4.Satellite, obs *sgp4.Observer, at time.Time) error {
	o, err := obs.Look(sat, at)
	if err != nil {
		return err
	}
	raRate, decRate, err := obs.TrackingRates(sat, sgp4.JulianDate(at))
	if err != nil {
		return err
	}

	t := newTable().Headers("Quantity", "Value").
		Row("Time (UTC)", at.Format(dateFormat)).
		Row("RA", fmt.Sprintf("%.4f° (%s)", o.Equatorial.RA, hms(o.Equatorial.RA))).
		Row("Dec", fmt.Sprintf("%+.4f°", o.Equatorial.Dec)).
		Row("Range", fmt.Sprintf("%.3f km", o.Equatorial.Range)).
		Row("Azimuth", fmt.Sprintf("%.2f°", o.LookAngles.Azimuth)).
		Row("Elevation", fmt.Sprintf("%+.2f°", o.LookAngles.Elevation)).
		Row("Range rate", fmt.Sprintf("%+.3f km/s", o.LookAngles.RangeRate)).
		Row("RA rate", fmt.Sprintf("%+.2f\"/s", raRate)).
		Row("Dec rate", fmt.Sprintf("%+.2f\"/s", decRate)).
		Row("Sub-point", fmt.Sprintf("%.3f°, %.3f°, %.1f km",
			o.SatellitePos.Latitude, o.SatellitePos.Longitude, o.SatellitePos.Altitude))

	fmt.Println(titleStyle.Render(title(sat)))
	fmt.Println(t.Render())
	return nil
}

func passes(logger kitlog.Logger, sat *sgp4.Satellite, obs *sgp4.Observer, cfg *config) error {
	found, err := obs.FindPasses(sat, cfg.start, cfg.end, cfg.minElevation, cfg.step)
	if err != nil {
		return err
	}
	logger.Log("msg", "pass search done", "start", cfg.start.Format(time.RFC3339),
		"end", cfg.end.Format(time.RFC3339), "passes", len(found))

	t := newTable().Headers("#", "AOS", "Az", "Max El", "Az", "LOS", "Az", "Duration")
	for i, p := range found {
		t.Row(
			strconv.Itoa(i+1),
			p.AOS.Format(dateFormat), fmt.Sprintf("%.0f°", p.AOSAzimuth),
			fmt.Sprintf("%.1f°", p.MaxElevation), fmt.Sprintf("%.0f°", p.MaxElevationAz),
			p.LOS.Format(dateFormat), fmt.Sprintf("%.0f°", p.LOSAzimuth),
			p.Duration.Truncate(time.Second).String(),
		)
	}
	fmt.Println(titleStyle.Render(title(sat)))
	fmt.Println(t.Render())

	if cfg.svg == "" || len(found) == 0 {
		return nil
	}
	f, err := os.Create(cfg.svg)
	if err != nil {
		return err
	}
	if err := found[0].WritePolarSVG(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", cfg.svg)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Log("msg", "polar plot written", "file", cfg.svg)
	return nil
}

func title(sat *sgp4.Satellite) string {
	name := sat.Name
	if name == "" {
		name = sat.IntlDesignator
	}
	return fmt.Sprintf("%s (%05d), %s", name, sat.SatNum, sat.Method)
}

// hms formats degrees of right ascension as hours, minutes and seconds.
func hms(deg float64) string {
	s := deg / 15 * 3600
	h := int(s / 3600)
	m := int(s/60) % 60
	return fmt.Sprintf("%02dh%02dm%05.2fs", h, m, s-float64(h*3600+m*60))
}
