package sgp4

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestParallaxFactors(t *testing.T) {
	tests := []struct {
		name           string
		lat, alt       float64
		rhoSin, rhoCos float64
	}{
		// Meeus, example 11.a
		{"Palomar", 33 + 21.0/60 + 22.0/3600, 1706, 0.546861, 0.836339},
		{"McDonald", 30.6715, 2070, 0.507308, 0.861135},
		{"equator", 0, 0, 0, 1},
		{"north pole", 90, 0, 0.996647, 0},
		{"southern hemisphere", -45, 500, -0.703607, 0.708349},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rhoCos, rhoSin := ParallaxFactors(tt.lat, tt.alt)
			assert.InDelta(t, tt.rhoSin, rhoSin, 1e-6)
			assert.InDelta(t, tt.rhoCos, rhoCos, 1e-6)
		})
	}
}

func TestObserverECI(t *testing.T) {
	const re = legacyEarthMajorAxisM / 1000
	jd := 2460700.25

	t.Run("equator", func(t *testing.T) {
		for _, lon := range []float64{0, 90, -104.0227, 180} {
			p := ObserverECI(lon, 1, 0, jd)
			assert.InDelta(t, re, r3.Norm(p), 1e-9)
			assert.Equal(t, 0.0, p.Z)
			angle := math.Atan2(p.Y, p.X)
			assert.InDelta(t, 0, angleDiff(angle, lon*deg2rad+ThetaG(jd)), 1e-12)
		}
	})

	t.Run("McDonald", func(t *testing.T) {
		rhoCos, rhoSin := ParallaxFactors(30.6715, 2070)
		p := ObserverECI(-104.0227, rhoCos, rhoSin, jd)
		assert.InDelta(t, rhoSin*re, p.Z, 1e-9)
		assert.InDelta(t, rhoCos*re, math.Hypot(p.X, p.Y), 1e-9)
		// geocentric distance is a little under the equatorial radius
		assert.InDelta(t, 6374.6, r3.Norm(p), 1.0)
	})

	t.Run("Earth rotates eastward", func(t *testing.T) {
		p1 := ObserverECI(0, 1, 0, jd)
		p2 := ObserverECI(0, 1, 0, jd+1.0/1440)
		assert.Greater(t, r3.Cross(p1, p2).Z, 0.0)
	})
}

func TestTopocentric(t *testing.T) {
	tests := []struct {
		name         string
		obs, sat     r3.Vec
		ra, dec, rng float64
	}{
		{"along x", r3.Vec{}, r3.Vec{X: 1}, 0, 0, 1},
		{"along -x", r3.Vec{}, r3.Vec{X: -2}, 180, 0, 2},
		{"along -y", r3.Vec{}, r3.Vec{Y: -3}, 270, 0, 3},
		{"celestial pole", r3.Vec{}, r3.Vec{Z: 4}, 0, 90, 4},
		{"south", r3.Vec{Z: 1}, r3.Vec{Z: -1}, 0, -90, 2},
		{"offset observer", r3.Vec{X: 1000, Y: 1000}, r3.Vec{X: 1000, Y: 2000, Z: 1000}, 90, 45, 1000 * math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Topocentric(tt.obs, tt.sat)
			require.NoError(t, err)
			assert.InDelta(t, tt.ra, got.RA, 1e-9)
			assert.InDelta(t, tt.dec, got.Dec, 1e-9)
			assert.InDelta(t, tt.rng, got.Range, 1e-9)
		})
	}

	t.Run("coincident", func(t *testing.T) {
		p := r3.Vec{X: 6378, Y: 12, Z: -5}
		got, err := Topocentric(p, p)
		assert.ErrorIs(t, err, ErrZeroRange)
		assert.True(t, math.IsNaN(got.RA))
		assert.True(t, math.IsNaN(got.Dec))
		assert.Equal(t, 0.0, got.Range)
	})
}

func TestTopocentricPropagated(t *testing.T) {
	sat, err := Init(issLine1, issLine2)
	require.NoError(t, err)
	rhoCos, rhoSin := ParallaxFactors(30.6715, 2070)

	for i := 0; i < 48; i++ {
		jd := sat.JDSatEpoch + float64(i)/48
		pos, _, err := sat.Propagate(jd)
		require.NoError(t, err)
		obs := ObserverECI(-104.0227, rhoCos, rhoSin, jd)

		got, err := Topocentric(obs, pos)
		require.NoError(t, err)
		assert.InDelta(t, r3.Norm(r3.Sub(pos, obs)), got.Range, 1e-9)
		assert.GreaterOrEqual(t, got.RA, 0.0)
		assert.Less(t, got.RA, 360.0)
		assert.GreaterOrEqual(t, got.Dec, -90.0)
		assert.LessOrEqual(t, got.Dec, 90.0)
		// never closer than the orbit altitude nor further than the Earth's far side
		assert.Greater(t, got.Range, 350.0)
		assert.Less(t, got.Range, 2*6378.14+450)
	}
}

func TestRangeDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-1e-15, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, rangeDegrees(tt.in), 1e-9, "%v", tt.in)
	}
}

func TestTopocentricKnownFixtures(t *testing.T) {
	tests := []struct {
		name         string
		line1, line2 string
		jd           float64
		loc          Location
		ra, dec, rng float64
	}{
		{
			name:  "ISS 2002",
			line1: "1 25544U 98067A   02256.70033192  .00045618  00000-0  57184-3 0  1499",
			line2: "2 25544  51.6396 328.6851 0018421 253.2171 244.7656 15.59086742217834",
			jd:    2452541.5,
			loc:   Location{Latitude: 44.01, Longitude: -69.9, Altitude: 100},
			ra:    350.16,
			dec:   -24.02,
			rng:   1867.98,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sat, err := Init(tt.line1, tt.line2)
			require.NoError(t, err)
			pos, _, err := sat.Propagate(tt.jd)
			require.NoError(t, err)

			rhoCos, rhoSin := ParallaxFactors(tt.loc.Latitude, tt.loc.Altitude)
			got, err := Topocentric(ObserverECI(tt.loc.Longitude, rhoCos, rhoSin, tt.jd), pos)
			require.NoError(t, err)
			assert.InDelta(t, tt.ra, got.RA, 0.5)
			assert.InDelta(t, tt.dec, got.Dec, 0.5)
			assert.InDelta(t, tt.rng, got.Range, 0.5)

			o, err := NewObserver(&tt.loc)
			require.NoError(t, err)
			pointed, err := o.Pointing(sat, tt.jd)
			require.NoError(t, err)
			assert.InDelta(t, got.RA, pointed.RA, 1e-9)
			assert.InDelta(t, got.Dec, pointed.Dec, 1e-9)
			assert.InDelta(t, got.Range, pointed.Range, 1e-9)
		})
	}
}
