package sgp4

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/spatial/r3"
)

// trackingInterval is the time step of the differential tracking rates.
const trackingInterval = 10.0 // seconds

// Location represents a ground station or observation point on Earth
type Location struct {
	Latitude  float64 // Latitude in degrees (North positive)
	Longitude float64 // Longitude in degrees (East positive)
	Altitude  float64 // Altitude in METERS above the ellipsoid
}

// TopocentricCoords represents the position of a satellite relative to
// an observation point in a local horizontal coordinate system:
type TopocentricCoords struct {
	Azimuth   float64 // degrees clockwise from true North (0° to 360°)
	Elevation float64 // degrees above the local horizon (-90° to 90°)
	Range     float64 // distance in kilometers from observer to satellite
	RangeRate float64 // rate of change of range in km/s (positive = moving away)
}

// SatellitePosition defines the geodetic position of the satellite.
type SatellitePosition struct {
	Latitude  float64   // Satellite latitude in degrees
	Longitude float64   // Satellite longitude in degrees
	Altitude  float64   // Satellite altitude in km above the ellipsoid
	Timestamp time.Time // Timestamp of this position
}

// Observation combines satellite position, equatorial pointing and look
// angles from a ground station.
type Observation struct {
	SatellitePos SatellitePosition // Geodetic position of the satellite
	Equatorial   RADec             // Topocentric right ascension and declination
	LookAngles   TopocentricCoords // Look angles from the observer to the satellite
}

// PassDataPoint stores the calculated data for a single point during a pass.
type PassDataPoint struct {
	Timestamp time.Time
	Azimuth   float64 // degrees
	Elevation float64 // degrees
	Range     float64 // km
	RangeRate float64 // km/s
}

// PassDetails stores information about a single satellite pass over a ground station.
type PassDetails struct {
	AOS              time.Time       // Acquisition of Signal time
	LOS              time.Time       // Loss of Signal time
	AOSAzimuth       float64         // Azimuth at AOS (degrees)
	LOSAzimuth       float64         // Azimuth at LOS (degrees)
	MaxElevation     float64         // Maximum elevation during the pass (degrees)
	MaxElevationAz   float64         // Azimuth at maximum elevation (degrees)
	MaxElevationTime time.Time       // Time of maximum elevation
	AOSObservation   Observation     // Observation details at AOS
	LOSObservation   Observation     // Observation details at LOS
	MaxElObservation Observation     // Observation details at Max Elevation
	Duration         time.Duration   // Duration of the pass
	DataPoints       []PassDataPoint // Slice of data points for plotting the pass path
}

// Observer is a validated location with its parallax factors computed once.
// It is read only after NewObserver and may be shared between goroutines.
type Observer struct {
	Location
	RhoCos float64
	RhoSin float64

	globe globe.Coord
}

// NewObserver validates loc and caches its parallax factors.
func NewObserver(loc *Location) (*Observer, error) {
	if loc == nil {
		return nil, ErrLocationNil
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return nil, ErrInvalidLocationLatitude
	}
	o := &Observer{Location: *loc}
	o.RhoCos, o.RhoSin = ParallaxFactors(loc.Latitude, loc.Altitude)
	o.globe = globe.Coord{
		Lat: unit.AngleFromDeg(loc.Latitude),
		Lon: unit.AngleFromDeg(-loc.Longitude), // meeus longitudes are west positive
	}
	return o, nil
}

// ECI returns the observer position in the inertial frame at jd, km.
func (o *Observer) ECI(jd float64) r3.Vec {
	return ObserverECI(o.Longitude, o.RhoCos, o.RhoSin, jd)
}

// Pointing propagates sat to jd and returns its topocentric RA/Dec and range.
func (o *Observer) Pointing(sat *Satellite, jd float64) (RADec, error) {
	pos, _, err := sat.Propagate(jd)
	if err != nil {
		return RADec{}, err
	}
	return Topocentric(o.ECI(jd), pos)
}

// Look propagates sat to t and returns the full observation: RA/Dec,
// altitude and azimuth, range rate and the sub-satellite point.
func (o *Observer) Look(sat *Satellite, t time.Time) (*Observation, error) {
	eci, err := sat.PropagateTime(t)
	if err != nil {
		return nil, err
	}
	return o.observe(&eci)
}

func (o *Observer) observe(eci *Eci) (*Observation, error) {
	jd := JulianDate(eci.DateTime)
	obs := o.ECI(jd)
	eq, err := Topocentric(obs, eci.Position)
	if err != nil {
		return nil, err
	}

	theta := ThetaG(jd)
	hz := new(coord.Horizontal).EqToHz(
		&coord.Equatorial{RA: unit.RAFromDeg(eq.RA), Dec: unit.AngleFromDeg(eq.Dec)},
		&o.globe,
		unit.Time(theta*secondsPerDay/twoPi),
	)
	// meeus measures azimuth westward from south
	azimuth := rangeDegrees(hz.Az.Deg() + 180)

	// the observer moves with the Earth's rotation
	obsVel := r3.Vec{X: -we * obs.Y, Y: we * obs.X}
	d := r3.Sub(eci.Position, obs)
	rangeRate := r3.Dot(d, r3.Sub(eci.Velocity, obsVel)) / eq.Range

	lat, lon, alt := eci.ToGeodetic()
	return &Observation{
		SatellitePos: SatellitePosition{
			Latitude:  lat,
			Longitude: lon,
			Altitude:  alt,
			Timestamp: eci.DateTime,
		},
		Equatorial: eq,
		LookAngles: TopocentricCoords{
			Azimuth:   azimuth,
			Elevation: hz.Alt.Deg(),
			Range:     eq.Range,
			RangeRate: rangeRate,
		},
	}, nil
}

// TrackingRates returns the apparent motion of sat at jd in arcseconds per
// second of time, differenced over ten seconds.
func (o *Observer) TrackingRates(sat *Satellite, jd float64) (raRate, decRate float64, err error) {
	p1, err := o.Pointing(sat, jd)
	if err != nil {
		return 0, 0, err
	}
	p2, err := o.Pointing(sat, jd+trackingInterval/secondsPerDay)
	if err != nil {
		return 0, 0, err
	}
	dra := p2.RA - p1.RA
	if dra > 180 {
		dra -= 360
	} else if dra < -180 {
		dra += 360
	}
	raRate = 3600 * dra / trackingInterval
	decRate = 3600 * (p2.Dec - p1.Dec) / trackingInterval
	return raRate, decRate, nil
}

// elevation returns only the look angles of sat at t.
func (o *Observer) elevation(sat *Satellite, t time.Time) (el, az float64, err error) {
	obs, err := o.Look(sat, t)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	return obs.LookAngles.Elevation, obs.LookAngles.Azimuth, nil
}
