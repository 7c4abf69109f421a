package sgp4

import (
	"bufio"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// epochPivotYear splits two-digit epoch years: below it is 20YY, otherwise
// 19YY. Valid for epochs 1957 through 2056.
const epochPivotYear = 57

// tleLineLen is the width of a well formed TLE line, checksum included.
const tleLineLen = 69

// Elements holds the fields of one element set in TLE units: degrees,
// revolutions per day and the day-of-year epoch.
type Elements struct {
	SatNum         int
	Classification byte
	IntlDesignator string
	EpochYear      int     // two digits
	EpochDays      float64 // day of year plus fraction, 1.0 is January 1 00:00 UTC
	Ndot           float64 // rev/day², first derivative of mean motion over 2
	Nddot          float64 // rev/day³, second derivative over 6
	Bstar          float64 // 1/Earth radii
	EphemerisType  int
	ElementNumber  int

	Inclination   float64 // deg
	RAAN          float64 // deg
	Eccentricity  float64
	ArgPerigee    float64 // deg
	MeanAnomaly   float64 // deg
	MeanMotion    float64 // rev/day
	RevNumber     int
}

// FullEpochYear expands the two-digit epoch year around epochPivotYear.
func FullEpochYear(yy int) int {
	if yy < epochPivotYear {
		return yy + 2000
	}
	return yy + 1900
}

// EpochTime returns the element set epoch.
func (el *Elements) EpochTime() time.Time {
	year := FullEpochYear(el.EpochYear)
	days := int(el.EpochDays)
	frac := el.EpochDays - float64(days)
	base := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days-1)
	return base.Add(time.Duration(math.Round(frac * 86400 * 1e9)))
}

// IsGeostationary reports whether the elements look like a station kept
// geostationary orbit: about one revolution per sidereal day, low
// inclination and eccentricity.
func (el *Elements) IsGeostationary() bool {
	const (
		geoMeanMotion     = 1.0027379093509 // rev/day
		meanMotionTol     = 0.05
		maxInclinationDeg = 5.0
		maxEccentricity   = 0.05
	)
	if math.Abs(el.MeanMotion-geoMeanMotion) > meanMotionTol {
		return false
	}
	return el.Inclination <= maxInclinationDeg && el.Eccentricity <= maxEccentricity
}

// scanLine1 reads the fields of a repaired line 1.
// %2d %5ld %1c %10s %2d %12lf %11lf %7lf %2d %7lf %2d %2d %6ld
func scanLine1(line string, el *Elements) error {
	s := newFieldScanner(repairLine(line, line1Repairs))
	s.Int(2) // line number
	el.SatNum = s.Int(5)
	el.Classification = s.Char()
	el.IntlDesignator = strings.Trim(s.String(10), "._")
	el.EpochYear = s.Int(2)
	el.EpochDays = s.Float(12)
	el.Ndot = s.Float(11)
	nddot := s.Float(7)
	nexp := s.Int(2)
	bstar := s.Float(7)
	ibexp := s.Int(2)
	el.EphemerisType = s.Int(2)
	elnum := s.Int(6)
	if s.Count() != 13 {
		return errors.Wrapf(ErrLine1Parse, "%d of 13 fields", s.Count())
	}
	el.Nddot = nddot * math.Pow(10, float64(nexp))
	el.Bstar = bstar * math.Pow(10, float64(ibexp))
	// the element number runs into the checksum column
	if len(line) >= tleLineLen && isDigit(line[tleLineLen-2]) && isDigit(line[tleLineLen-1]) {
		elnum /= 10
	}
	el.ElementNumber = elnum
	return nil
}

// scanLine2 reads the fields of a repaired line 2. Mean motion is read 11
// wide when it has two integer digits.
// %2d %5ld %9lf %9lf %8lf %9lf %9lf %10lf
func scanLine2(line string, el *Elements) error {
	buf := repairLine(line, line2Repairs)
	s := newFieldScanner(buf)
	s.Int(2)
	s.Int(5)
	el.Inclination = s.Float(9)
	el.RAAN = s.Float(9)
	el.Eccentricity = s.Float(8)
	el.ArgPerigee = s.Float(9)
	el.MeanAnomaly = s.Float(9)
	if buf[52] == ' ' {
		el.MeanMotion = s.Float(10)
	} else {
		el.MeanMotion = s.Float(11)
	}
	if s.Count() != 8 {
		return errors.Wrapf(ErrLine2Parse, "%d of 8 fields", s.Count())
	}
	el.RevNumber = revNumber(line)
	return nil
}

// revNumber reads columns 64-68 of line 2, zero when absent.
func revNumber(line string) int {
	if len(line) < 68 {
		return 0
	}
	n := 0
	for _, c := range []byte(strings.TrimSpace(line[63:68])) {
		if !isDigit(c) {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// ScanElements repairs and scans both lines without building a propagator.
func ScanElements(line1, line2 string) (*Elements, error) {
	el := &Elements{}
	if err := scanLine1(line1, el); err != nil {
		return nil, err
	}
	if err := scanLine2(line2, el); err != nil {
		return nil, err
	}
	return el, nil
}

// TLE is a validated two-line element set with its optional name line.
type TLE struct {
	Name  string
	Line1 string
	Line2 string
}

// ParseTLE parses a two or three line element set (the first line being the
// satellite name) and verifies line numbers, widths and checksums.
func ParseTLE(input string) (*TLE, error) {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	if len(lines) < 2 || len(lines) > 3 {
		return nil, errors.New("invalid TLE: must contain 2 or 3 lines")
	}

	tle := &TLE{}
	if len(lines) == 3 {
		tle.Name = strings.TrimPrefix(lines[0], "0 ")
		lines = lines[1:]
	}
	tle.Line1, tle.Line2 = lines[0], lines[1]

	for i, line := range []string{tle.Line1, tle.Line2} {
		if err := checkLine(line, byte('1'+i)); err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
	}
	if tle.Line1[2:7] != tle.Line2[2:7] {
		return nil, errors.Errorf("invalid TLE: satellite numbers do not match (%q vs %q)", tle.Line1[2:7], tle.Line2[2:7])
	}
	return tle, nil
}

func checkLine(line string, number byte) error {
	if len(line) != tleLineLen {
		return errors.Errorf("must be %d characters, got %d", tleLineLen, len(line))
	}
	if line[0] != number {
		return errors.Errorf("must begin with '%c'", number)
	}
	want := int(line[tleLineLen-1] - '0')
	if got := calculateChecksum(line); got != want {
		return errors.Errorf("checksum mismatch: expected %d (from TLE), got %d (calculated)", want, got)
	}
	return nil
}

// Elements scans the element set.
func (tle *TLE) Elements() (*Elements, error) {
	return ScanElements(tle.Line1, tle.Line2)
}

// Satellite initializes a propagator from the element set.
func (tle *TLE) Satellite(opts ...Option) (*Satellite, error) {
	sat, err := Init(tle.Line1, tle.Line2, opts...)
	if err != nil {
		return nil, err
	}
	sat.Name = tle.Name
	return sat, nil
}

// ReadTLEs reads a catalogue of element sets as published by CelesTrak:
// consecutive line 1 / line 2 pairs, each optionally preceded by a name line.
// Blank lines are skipped.
func ReadTLEs(r io.Reader) ([]*TLE, error) {
	var (
		out  []*TLE
		name string
		l1   string
		n    int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "1 ") && len(line) == tleLineLen:
			l1 = line
		case strings.HasPrefix(line, "2 ") && len(line) == tleLineLen && l1 != "":
			text := l1 + "\n" + line
			if name != "" {
				text = name + "\n" + text
			}
			tle, err := ParseTLE(text)
			if err != nil {
				return out, errors.Wrapf(err, "element set ending at line %d", n)
			}
			out = append(out, tle)
			name, l1 = "", ""
		default:
			name, l1 = line, ""
		}
	}
	if err := sc.Err(); err != nil {
		return out, errors.Wrap(err, "reading element sets")
	}
	return out, nil
}

// calculateChecksum is the modulo-10 sum of the first 68 columns: digits
// count their value, '-' counts 1, everything else 0.
func calculateChecksum(line string) int {
	sum := 0
	for i := 0; i < len(line) && i < tleLineLen-1; i++ {
		switch c := line[i]; {
		case isDigit(c):
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
