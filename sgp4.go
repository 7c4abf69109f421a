package sgp4

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/spatial/r3"
)

// Eci is a TEME position (km) and velocity (km/s) at an instant.
type Eci struct {
	DateTime time.Time
	Position r3.Vec
	Velocity r3.Vec
}

// ToGeodetic converts the position to WGS-84 geodetic latitude and
// longitude (degrees) and height above the ellipsoid (km).
func (eci *Eci) ToGeodetic() (lat, lon, alt float64) {
	e2 := fWGS84 * (2.0 - fWGS84)

	x, y, z := eci.Position.X, eci.Position.Y, eci.Position.Z
	lon = wrapLongitude(math.Atan2(y, x) - eci.GreenwichSiderealTime())
	r := math.Hypot(x, y)
	lat = math.Atan2(z, r)

	const (
		maxIter = 10
		tol     = 1e-10
	)
	var c float64
	for i := 0; i < maxIter; i++ {
		old := lat
		sinLat := math.Sin(lat)
		c = 1.0 / math.Sqrt(1.0-e2*sinLat*sinLat)
		lat = math.Atan2(z+reWGS84*c*e2*sinLat, r)
		if math.Abs(lat-old) < tol {
			break
		}
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := reWGS84 / math.Sqrt(1.0-e2*sinLat*sinLat)
	if math.Abs(cosLat) < 1e-10 {
		alt = math.Abs(z) - reWGS84*math.Sqrt(1.0-e2)
	} else {
		alt = r/cosLat - n
	}
	return lat * rad2deg, lon * rad2deg, alt
}

// GreenwichSiderealTime returns the mean sidereal time at DateTime, radians.
func (eci *Eci) GreenwichSiderealTime() float64 {
	return gstime(julian.TimeToJD(eci.DateTime.UTC()))
}

// Propagate returns the TEME position (km) and velocity (km/s) at Julian
// date jd. On failure both vectors are zero and the error matches
// ErrPropagationFailed.
func (sat *Satellite) Propagate(jd float64) (pos, vel r3.Vec, err error) {
	return sat.PropagateMinutes((jd - sat.JDSatEpoch) * minutesPerDay)
}

// PropagateMinutes propagates to tsince minutes from epoch.
func (sat *Satellite) PropagateMinutes(tsince float64) (pos, vel r3.Vec, err error) {
	pos, vel, err = sat.sgp4(tsince)
	sat.Error = errorCode(err)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	return pos, vel, nil
}

// PropagateTime propagates to t.
func (sat *Satellite) PropagateTime(t time.Time) (Eci, error) {
	pos, vel, err := sat.Propagate(julian.TimeToJD(t.UTC()))
	if err != nil {
		return Eci{}, err
	}
	return Eci{DateTime: t, Position: pos, Velocity: vel}, nil
}

// EpochTime returns the element set epoch.
func (sat *Satellite) EpochTime() time.Time {
	return julian.JDToTime(sat.JDSatEpoch)
}

// sgp4 is the propagator proper: secular gravity and drag, deep-space
// terms, long period periodics, Kepler's equation, short period periodics
// and the rotation to TEME.
func (sat *Satellite) sgp4(t float64) (r3.Vec, r3.Vec, error) {
	g := sat.grav
	const temp4 = 1.5e-12
	vkmpersec := g.RadiusEarthKm * g.Xke / 60

	// secular gravity and atmospheric drag
	xmdf := sat.Mo + sat.mdot*t
	argpdf := sat.Argpo + sat.argpdot*t
	nodedf := sat.Nodeo + sat.nodedot*t
	s := meanState{argp: argpdf, m: xmdf}
	t2 := t * t
	s.node = nodedf + sat.nodecf*t2
	tempa := 1 - sat.cc1*t
	tempe := sat.Bstar * sat.cc4 * t
	templ := sat.t2cof * t2

	if !sat.IsImp {
		delomg := sat.omgcof * t
		delm := sat.xmcof * (math.Pow(1+sat.eta*math.Cos(xmdf), 3) - sat.delmo)
		temp := delomg + delm
		s.m = xmdf + temp
		s.argp = argpdf - temp
		t3 := t2 * t
		t4 := t3 * t
		tempa = tempa - sat.d2*t2 - sat.d3*t3 - sat.d4*t4
		tempe += sat.Bstar * sat.cc5 * (math.Sin(s.m) - sat.sinmao)
		templ += sat.t3cof*t3 + t4*(sat.t4cof+t*sat.t5cof)
	}

	s.n = sat.No
	s.e = sat.Ecco
	s.incl = sat.Inclo
	if sat.Method == DeepSpace {
		sat.dspace(t, &s)
	}

	if s.n <= 0 {
		return r3.Vec{}, r3.Vec{}, &ModelLimitsError{Tsince: t, Reason: ReasonMeanMotion, Value: s.n}
	}
	am := math.Pow(g.Xke/s.n, x2o3) * tempa * tempa
	s.n = g.Xke / math.Pow(am, 1.5)
	s.e -= tempe

	if s.e >= 1 || s.e < -0.001 {
		return r3.Vec{}, r3.Vec{}, &ModelLimitsError{Tsince: t, Reason: ReasonMeanEccentricity, Value: s.e}
	}
	if s.e < 1e-6 {
		s.e = 1e-6
	}
	s.m += sat.No * templ
	xlm := s.m + s.argp + s.node
	s.node = math.Mod(s.node, twoPi)
	s.argp = math.Mod(s.argp, twoPi)
	xlm = math.Mod(xlm, twoPi)
	s.m = math.Mod(xlm-s.argp-s.node, twoPi)

	// lunar-solar periodics
	p := s
	sinip := math.Sin(p.incl)
	cosip := math.Cos(p.incl)
	aycof, xlcof := sat.aycof, sat.xlcof
	con41, x1mth2, x7thm1 := sat.con41, sat.x1mth2, sat.x7thm1
	if sat.Method == DeepSpace {
		sat.ds.dpper(t, sat.OpsMode, &p)
		if p.incl < 0 {
			p.incl = -p.incl
			p.node += math.Pi
			p.argp -= math.Pi
		}
		if p.e < 0 || p.e > 1 {
			return r3.Vec{}, r3.Vec{}, &ModelLimitsError{Tsince: t, Reason: ReasonPerturbedEccentricity, Value: p.e}
		}

		sinip = math.Sin(p.incl)
		cosip = math.Cos(p.incl)
		aycof = -0.5 * g.J3oJ2 * sinip
		if math.Abs(cosip+1) > 1.5e-12 {
			xlcof = -0.25 * g.J3oJ2 * sinip * (3 + 5*cosip) / (1 + cosip)
		} else {
			xlcof = -0.25 * g.J3oJ2 * sinip * (3 + 5*cosip) / temp4
		}
	}

	// long period periodics
	axnl := p.e * math.Cos(p.argp)
	temp := 1 / (am * (1 - p.e*p.e))
	aynl := p.e*math.Sin(p.argp) + temp*aycof
	xl := p.m + p.argp + p.node + temp*xlcof*axnl

	// Kepler's equation
	u := math.Mod(xl-p.node, twoPi)
	eo1 := u
	tem5 := 9999.9
	var sineo1, coseo1 float64
	for ktr := 1; math.Abs(tem5) >= 1e-12 && ktr <= 10; ktr++ {
		sineo1 = math.Sin(eo1)
		coseo1 = math.Cos(eo1)
		tem5 = 1 - coseo1*axnl - sineo1*aynl
		tem5 = (u - aynl*coseo1 + axnl*sineo1 - eo1) / tem5
		if math.Abs(tem5) >= 0.95 {
			tem5 = math.Copysign(0.95, tem5)
		}
		eo1 += tem5
	}

	// short period preliminary quantities
	ecose := axnl*coseo1 + aynl*sineo1
	esine := axnl*sineo1 - aynl*coseo1
	el2 := axnl*axnl + aynl*aynl
	pl := am * (1 - el2)
	if pl < 0 {
		return r3.Vec{}, r3.Vec{}, &ModelLimitsError{Tsince: t, Reason: ReasonSemiLatusRectum, Value: pl}
	}
	rl := am * (1 - ecose)
	rdotl := math.Sqrt(am) * esine / rl
	rvdotl := math.Sqrt(pl) / rl
	betal := math.Sqrt(1 - el2)
	temp = esine / (1 + betal)
	sinu := am / rl * (sineo1 - aynl - axnl*temp)
	cosu := am / rl * (coseo1 - axnl + aynl*temp)
	su := math.Atan2(sinu, cosu)
	sin2u := (cosu + cosu) * sinu
	cos2u := 1 - 2*sinu*sinu
	temp = 1 / pl
	temp1 := 0.5 * g.J2 * temp
	temp2 := temp1 * temp

	if sat.Method == DeepSpace {
		cosisq := cosip * cosip
		con41 = 3*cosisq - 1
		x1mth2 = 1 - cosisq
		x7thm1 = 7*cosisq - 1
	}

	// short period periodics
	mrt := rl*(1-1.5*temp2*betal*con41) + 0.5*temp1*x1mth2*cos2u
	su -= 0.25 * temp2 * x7thm1 * sin2u
	xnode := p.node + 1.5*temp2*cosip*sin2u
	xinc := p.incl + 1.5*temp2*cosip*sinip*cos2u
	mvt := rdotl - p.n*temp1*x1mth2*sin2u/g.Xke
	rvdot := rvdotl + p.n*temp1*(x1mth2*cos2u+1.5*con41)/g.Xke

	// orientation vectors
	sinsu, cossu := math.Sin(su), math.Cos(su)
	snod, cnod := math.Sin(xnode), math.Cos(xnode)
	sini, cosi := math.Sin(xinc), math.Cos(xinc)
	xmx := -snod * cosi
	xmy := cnod * cosi
	uv := r3.Vec{X: xmx*sinsu + cnod*cossu, Y: xmy*sinsu + snod*cossu, Z: sini * sinsu}
	vv := r3.Vec{X: xmx*cossu - cnod*sinsu, Y: xmy*cossu - snod*sinsu, Z: sini * cossu}

	if mrt < 1 {
		return r3.Vec{}, r3.Vec{}, &DecayedError{Tsince: t, Radius: mrt}
	}

	pos := r3.Scale(mrt*g.RadiusEarthKm, uv)
	vel := r3.Scale(vkmpersec, r3.Add(r3.Scale(mvt, uv), r3.Scale(rvdot, vv)))
	return pos, vel, nil
}

func wrapLongitude(lon float64) float64 {
	lon = math.Mod(lon, twoPi)
	if lon > math.Pi {
		lon -= twoPi
	} else if lon < -math.Pi {
		lon += twoPi
	}
	return lon
}
