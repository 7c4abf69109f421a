package sgp4

import (
	"math"

	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// Observer positions use this ellipsoid, not the radius of the gravity
// model.
const (
	legacyEarthMajorAxisM = 6378140.0
	legacyEarthMinorAxisM = 6356755.0
)

var observerEllipsoid = globe.Ellipsoid{
	Er: legacyEarthMajorAxisM / 1000,
	Fl: 1 - legacyEarthMinorAxisM/legacyEarthMajorAxisM,
}

// RADec is a topocentric direction and distance.
type RADec struct {
	RA    float64 // degrees, [0, 360)
	Dec   float64 // degrees, [-90, 90]
	Range float64 // km
}

// ParallaxFactors returns ρ·cos φ′ and ρ·sin φ′ for an observer at geodetic
// latitude latDeg and altM meters above the ellipsoid, in units of the
// equatorial radius.
func ParallaxFactors(latDeg, altM float64) (rhoCos, rhoSin float64) {
	rhoSin, rhoCos = observerEllipsoid.ParallaxConstants(unit.AngleFromDeg(latDeg), altM)
	return rhoCos, rhoSin
}

// ObserverECI returns the observer position in the inertial frame at jd, km.
// lonDeg is east positive.
func ObserverECI(lonDeg, rhoCos, rhoSin, jd float64) r3.Vec {
	const re = legacyEarthMajorAxisM / 1000
	angle := lonDeg*deg2rad + ThetaG(jd)
	return r3.Vec{
		X: math.Cos(angle) * rhoCos * re,
		Y: math.Sin(angle) * rhoCos * re,
		Z: rhoSin * re,
	}
}

// Topocentric returns the direction and distance of sat as seen from obs,
// both in the same inertial frame. Coincident positions return
// ErrZeroRange with NaN angles.
func Topocentric(obs, sat r3.Vec) (RADec, error) {
	d := r3.Sub(sat, obs)
	rng := r3.Norm(d)
	if rng == 0 {
		return RADec{RA: math.NaN(), Dec: math.NaN()}, ErrZeroRange
	}
	return RADec{
		RA:    rangeDegrees(math.Atan2(d.Y, d.X) * rad2deg),
		Dec:   math.Asin(d.Z/rng) * rad2deg,
		Range: rng,
	}, nil
}

// rangeDegrees maps an angle to [0, 360).
func rangeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
