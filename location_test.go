package sgp4

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// McDonald Observatory, Texas
var mcDonald = Location{Latitude: 30.6715, Longitude: -104.0227, Altitude: 2070}

// localFrame returns the geodetic up, east and north unit vectors of o at jd.
func localFrame(o *Observer, jd float64) (up, east, north r3.Vec) {
	lat := o.Latitude * deg2rad
	lst := o.Longitude*deg2rad + ThetaG(jd)
	up = r3.Vec{X: math.Cos(lat) * math.Cos(lst), Y: math.Cos(lat) * math.Sin(lst), Z: math.Sin(lat)}
	east = r3.Vec{X: -math.Sin(lst), Y: math.Cos(lst)}
	north = r3.Vec{X: -math.Sin(lat) * math.Cos(lst), Y: -math.Sin(lat) * math.Sin(lst), Z: math.Cos(lat)}
	return up, east, north
}

func TestNewObserver(t *testing.T) {
	_, err := NewObserver(nil)
	assert.ErrorIs(t, err, ErrLocationNil)

	for _, lat := range []float64{-90.5, 91, math.Inf(1)} {
		_, err := NewObserver(&Location{Latitude: lat})
		assert.ErrorIs(t, err, ErrInvalidLocationLatitude, "lat %v", lat)
	}

	o, err := NewObserver(&mcDonald)
	require.NoError(t, err)
	rhoCos, rhoSin := ParallaxFactors(mcDonald.Latitude, mcDonald.Altitude)
	assert.Equal(t, rhoCos, o.RhoCos)
	assert.Equal(t, rhoSin, o.RhoSin)
	assert.Equal(t, mcDonald, o.Location)
}

func TestLookAngles(t *testing.T) {
	o, err := NewObserver(&mcDonald)
	require.NoError(t, err)
	at := time.Date(2025, 1, 25, 12, 0, 0, 0, time.UTC)
	jd := JulianDate(at)
	obs := o.ECI(jd)
	up, east, north := localFrame(o, jd)
	obsVel := r3.Vec{X: -we * obs.Y, Y: we * obs.X}
	southWest := r3.Unit(r3.Scale(-1, r3.Add(north, east)))

	tests := []struct {
		name      string
		pos, vel  r3.Vec
		az, el    float64
		rangeRate float64
	}{
		{"overhead", r3.Add(obs, r3.Scale(500, up)), r3.Add(obsVel, up), math.NaN(), 90, 1},
		{"due east on the horizon", r3.Add(obs, r3.Scale(1000, east)), obsVel, 90, 0, 0},
		{"due north, 30 degrees up", r3.Add(obs, r3.Add(r3.Scale(1000*math.Sqrt(3), north), r3.Scale(1000, up))), obsVel, 0, 30, 0},
		{"south west, approaching", r3.Add(obs, r3.Scale(800, southWest)), r3.Add(obsVel, r3.Scale(-2, southWest)), 225, 0, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := o.observe(&Eci{DateTime: at, Position: tt.pos, Velocity: tt.vel})
			require.NoError(t, err)
			assert.InDelta(t, tt.el, got.LookAngles.Elevation, 1e-5)
			if !math.IsNaN(tt.az) {
				assert.InDelta(t, 0, angleDiff(tt.az*deg2rad, got.LookAngles.Azimuth*deg2rad), 1e-8)
			}
			assert.InDelta(t, tt.rangeRate, got.LookAngles.RangeRate, 1e-9)
			assert.InDelta(t, r3.Norm(r3.Sub(tt.pos, obs)), got.LookAngles.Range, 1e-9)
			assert.Equal(t, got.Equatorial.Range, got.LookAngles.Range)
		})
	}

	t.Run("coincident", func(t *testing.T) {
		_, err := o.observe(&Eci{DateTime: at, Position: obs})
		assert.ErrorIs(t, err, ErrZeroRange)
	})
}

func TestLook(t *testing.T) {
	sat, err := Init(issLine1, issLine2)
	require.NoError(t, err)
	o, err := NewObserver(&mcDonald)
	require.NoError(t, err)

	for i := 0; i < 24; i++ {
		at := sat.EpochTime().Add(time.Duration(i) * 17 * time.Minute)
		got, err := o.Look(sat, at)
		require.NoError(t, err)

		jd := JulianDate(at)
		eq, err := o.Pointing(sat, jd)
		require.NoError(t, err)
		assert.InDelta(t, eq.RA, got.Equatorial.RA, 1e-9)
		assert.InDelta(t, eq.Dec, got.Equatorial.Dec, 1e-9)
		assert.InDelta(t, eq.Range, got.Equatorial.Range, 1e-9)

		pos, _, err := sat.Propagate(jd)
		require.NoError(t, err)
		up, east, north := localFrame(o, jd)
		d := r3.Unit(r3.Sub(pos, o.ECI(jd)))
		assert.InDelta(t, math.Asin(r3.Dot(d, up))*rad2deg, got.LookAngles.Elevation, 1e-6)
		az := rangeDegrees(math.Atan2(r3.Dot(d, east), r3.Dot(d, north)) * rad2deg)
		assert.InDelta(t, 0, angleDiff(az*deg2rad, got.LookAngles.Azimuth*deg2rad), 1e-8)

		assert.Equal(t, at, got.SatellitePos.Timestamp)
		assert.InDelta(t, 420, got.SatellitePos.Altitude, 30)
		assert.LessOrEqual(t, math.Abs(got.SatellitePos.Latitude), 52.0)
	}
}

func TestTrackingRates(t *testing.T) {
	o, err := NewObserver(&mcDonald)
	require.NoError(t, err)

	t.Run("geostationary moves with the sky", func(t *testing.T) {
		sat, err := Init(
			"1 28626U 05008A   06176.46683397 -.00000205  00000-0  10000-3 0  2190",
			"2 28626   0.0019 286.9433 0000335  13.7918  55.6504  1.00270176  4891")
		require.NoError(t, err)
		raRate, decRate, err := o.TrackingRates(sat, sat.JDSatEpoch+0.1)
		require.NoError(t, err)
		// sidereal rate
		assert.InDelta(t, 15.041, raRate, 0.05)
		assert.InDelta(t, 0, decRate, 0.05)
	})

	t.Run("low orbit moves fast", func(t *testing.T) {
		sat, err := Init(issLine1, issLine2)
		require.NoError(t, err)
		jd := sat.JDSatEpoch + 0.3
		raRate, decRate, err := o.TrackingRates(sat, jd)
		require.NoError(t, err)

		p1, err := o.Pointing(sat, jd)
		require.NoError(t, err)
		p2, err := o.Pointing(sat, jd+trackingInterval/secondsPerDay)
		require.NoError(t, err)
		assert.InDelta(t, 3600*(p2.Dec-p1.Dec)/trackingInterval, decRate, 1e-9)
		assert.Greater(t, math.Hypot(raRate, decRate), 15.0)
	})

	t.Run("propagation failure", func(t *testing.T) {
		sat, err := Init(issLine1, issLine2)
		require.NoError(t, err)
		sat.No = 0
		_, _, err = o.TrackingRates(sat, sat.JDSatEpoch)
		assert.ErrorIs(t, err, ErrPropagationFailed)
	})
}
