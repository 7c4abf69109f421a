package sgp4

import (
	"math"
	"strings"
)

// Mathematical and physical constants
const (
	twoPi         = 2 * math.Pi
	deg2rad       = math.Pi / 180.0
	rad2deg       = 180.0 / math.Pi
	x2o3          = 2.0 / 3.0
	minutesPerDay = 1440.0
	xpdotp        = minutesPerDay / twoPi // rev/day -> rad/min

	// jd of 1949 December 31 00:00 UT, the SGP4 internal epoch origin
	jd1950 = 2433281.5

	we = 7.2921150e-5 // Earth's angular velocity (rad/sec)

	// WGS-84 ellipsoid used for the sub-satellite point
	reWGS84 = 6378.137            // km
	fWGS84  = 1.0 / 298.257223563 // flattening
)

// GravityModel selects the Earth gravity constants used by the propagator.
type GravityModel int

const (
	// WGS72Old is WGS-72 with the xke value of Spacetrack Report #3.
	WGS72Old GravityModel = iota
	// WGS72 is the model the published element sets are fitted with.
	WGS72
	// WGS84 is the default, as in the legacy pointing code.
	WGS84
)

func (m GravityModel) String() string {
	switch m {
	case WGS72Old:
		return "wgs72old"
	case WGS72:
		return "wgs72"
	default:
		return "wgs84"
	}
}

// ParseGravityModel maps "wgs72old", "wgs72" or "wgs84" (any case) to a model.
func ParseGravityModel(s string) (GravityModel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wgs72old", "wgs-72-old":
		return WGS72Old, true
	case "wgs72", "wgs-72":
		return WGS72, true
	case "wgs84", "wgs-84", "":
		return WGS84, true
	}
	return WGS84, false
}

// GravityConstants holds the Earth model constants of one GravityModel.
type GravityConstants struct {
	Tumin         float64 // minutes in one time unit
	Mu            float64 // km³/s²
	RadiusEarthKm float64 // equatorial radius, km
	Xke           float64 // reciprocal of Tumin
	J2            float64
	J3            float64
	J4            float64
	J3oJ2         float64
}

// Gravity returns the constants of model m. Unknown models get WGS84.
func Gravity(m GravityModel) GravityConstants {
	var g GravityConstants
	switch m {
	case WGS72Old:
		g.Mu = 398600.79964
		g.RadiusEarthKm = 6378.135
		g.Xke = 0.0743669161
		g.J2 = 0.001082616
		g.J3 = -0.00000253881
		g.J4 = -0.00000165597
	case WGS72:
		g.Mu = 398600.8
		g.RadiusEarthKm = 6378.135
		g.Xke = 60.0 / math.Sqrt(g.RadiusEarthKm*g.RadiusEarthKm*g.RadiusEarthKm/g.Mu)
		g.J2 = 0.001082616
		g.J3 = -0.00000253881
		g.J4 = -0.00000165597
	default:
		g.Mu = 398600.5
		g.RadiusEarthKm = 6378.137
		g.Xke = 60.0 / math.Sqrt(g.RadiusEarthKm*g.RadiusEarthKm*g.RadiusEarthKm/g.Mu)
		g.J2 = 0.00108262998905
		g.J3 = -0.00000253215306
		g.J4 = -0.00000161098761
	}
	g.Tumin = 1.0 / g.Xke
	g.J3oJ2 = g.J3 / g.J2
	return g
}

// OpsMode selects between the AFSPC compatible and the improved code paths
// of the propagator. They differ in the sidereal time at epoch and in the
// quadrant handling of the Lyddane node for low inclination deep-space orbits.
type OpsMode byte

const (
	// OpsAFSPC reproduces the operational AFSPC code.
	OpsAFSPC OpsMode = 'a'

	// OpsImproved uses the corrected sidereal time and node handling.
	OpsImproved OpsMode = 'i'
)
