package sgp4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPasses(t *testing.T) {
	sat, err := Init(issLine1, issLine2)
	require.NoError(t, err)
	o, err := NewObserver(&mcDonald)
	require.NoError(t, err)

	start := sat.EpochTime()
	end := start.Add(24 * time.Hour)
	const minEl = 10.0

	passes, err := o.FindPasses(sat, start, end, minEl, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, passes, "no passes found in 24 hours")

	for i, pass := range passes {
		checkPass(t, i, &pass, start, end, minEl)
		if i > 0 {
			assert.True(t, passes[i-1].LOS.Before(pass.AOS), "pass %d overlaps the previous one", i)
		}
	}

	t.Run("default step", func(t *testing.T) {
		again, err := o.FindPasses(sat, start, end, minEl, 0)
		require.NoError(t, err)
		require.Len(t, again, len(passes))
		for i := range passes {
			assert.Equal(t, passes[i].AOS, again[i].AOS)
			assert.Equal(t, passes[i].LOS, again[i].LOS)
		}
	})
}

func checkPass(t *testing.T, index int, pass *PassDetails, start, end time.Time, minEl float64) {
	t.Helper()

	assert.False(t, pass.AOS.Before(start), "pass %d: AOS before the window", index)
	assert.False(t, pass.LOS.After(end), "pass %d: LOS after the window", index)
	assert.False(t, pass.MaxElevationTime.Before(pass.AOS), "pass %d: culmination before AOS", index)
	assert.False(t, pass.MaxElevationTime.After(pass.LOS), "pass %d: culmination after LOS", index)
	assert.Equal(t, pass.LOS.Sub(pass.AOS), pass.Duration)
	assert.Less(t, pass.Duration, 15*time.Minute, "pass %d", index)

	assert.GreaterOrEqual(t, pass.MaxElevation, minEl-0.01, "pass %d", index)
	assert.LessOrEqual(t, pass.MaxElevation, 90.0, "pass %d", index)
	assert.Equal(t, pass.MaxElevationAz, pass.MaxElObservation.LookAngles.Azimuth)
	assert.Equal(t, pass.AOSAzimuth, pass.AOSObservation.LookAngles.Azimuth)
	assert.Equal(t, pass.LOSAzimuth, pass.LOSObservation.LookAngles.Azimuth)

	// bisected crossings sit on the threshold
	if pass.AOS.After(start) {
		assert.InDelta(t, minEl, pass.AOSObservation.LookAngles.Elevation, 0.05, "pass %d AOS", index)
	}
	if pass.LOS.Before(end) {
		assert.InDelta(t, minEl, pass.LOSObservation.LookAngles.Elevation, 0.05, "pass %d LOS", index)
	}

	for _, az := range []float64{pass.AOSAzimuth, pass.MaxElevationAz, pass.LOSAzimuth} {
		assert.GreaterOrEqual(t, az, 0.0)
		assert.Less(t, az, 360.0)
	}
	for _, obs := range []Observation{pass.AOSObservation, pass.MaxElObservation, pass.LOSObservation} {
		assert.Greater(t, obs.LookAngles.Range, 400.0)
		assert.Less(t, obs.LookAngles.Range, 2500.0)
	}

	require.GreaterOrEqual(t, len(pass.DataPoints), 2, "pass %d", index)
	assert.Equal(t, pass.AOS, pass.DataPoints[0].Timestamp)
	assert.Equal(t, pass.LOS, pass.DataPoints[len(pass.DataPoints)-1].Timestamp)
	for j, dp := range pass.DataPoints {
		assert.GreaterOrEqual(t, dp.Elevation, minEl-0.05, "pass %d point %d", index, j)
		assert.LessOrEqual(t, dp.Elevation, pass.MaxElevation, "pass %d point %d", index, j)
		if j > 0 {
			assert.True(t, dp.Timestamp.After(pass.DataPoints[j-1].Timestamp), "pass %d point %d out of order", index, j)
		}
	}
}

func TestFindPassesEdgeCases(t *testing.T) {
	sat, err := Init(issLine1, issLine2)
	require.NoError(t, err)
	epoch := sat.EpochTime()

	tests := []struct {
		name  string
		loc   Location
		start time.Time
		end   time.Time
		minEl float64
	}{
		{
			name:  "Above the zenith",
			loc:   mcDonald,
			start: epoch,
			end:   epoch.Add(24 * time.Hour),
			minEl: 90.1,
		},
		{
			// a 51.6° orbit stays below the horizon of the pole
			name:  "Location near pole",
			loc:   Location{Latitude: 89.9},
			start: epoch,
			end:   epoch.Add(24 * time.Hour),
			minEl: 0,
		},
		{
			name:  "Empty window",
			loc:   mcDonald,
			start: epoch,
			end:   epoch,
			minEl: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewObserver(&tt.loc)
			require.NoError(t, err)
			passes, err := o.FindPasses(sat, tt.start, tt.end, tt.minEl, time.Minute)
			require.NoError(t, err)
			for _, p := range passes {
				assert.GreaterOrEqual(t, p.MaxElevation, tt.minEl)
			}
			if tt.name != "Empty window" {
				assert.Empty(t, passes)
			}
		})
	}

	t.Run("Reversed window", func(t *testing.T) {
		o, err := NewObserver(&mcDonald)
		require.NoError(t, err)
		_, err = o.FindPasses(sat, epoch.Add(time.Hour), epoch, 10, time.Minute)
		assert.Error(t, err)
	})
}

func TestFindPassesClippedAtEnd(t *testing.T) {
	sat, err := Init(issLine1, issLine2)
	require.NoError(t, err)
	o, err := NewObserver(&mcDonald)
	require.NoError(t, err)

	start := sat.EpochTime()
	full, err := o.FindPasses(sat, start, start.Add(24*time.Hour), 0, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, full)

	highest := full[0]
	for _, p := range full[1:] {
		if p.MaxElevation > highest.MaxElevation {
			highest = p
		}
	}
	require.Greater(t, highest.MaxElevation, 5.0)

	// end half a step after the sample closest to culmination
	end := start.Add(highest.MaxElevationTime.Sub(start).Truncate(time.Minute) + 30*time.Second)
	passes, err := o.FindPasses(sat, start, end, 0, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, passes)

	last := passes[len(passes)-1]
	assert.Equal(t, highest.AOS, last.AOS)
	assert.Equal(t, end, last.LOS)
	assert.Equal(t, end.Sub(last.AOS), last.Duration)
	assert.Equal(t, end, last.DataPoints[len(last.DataPoints)-1].Timestamp)
	assert.Equal(t, end, last.LOSObservation.SatellitePos.Timestamp)
	assert.Greater(t, last.LOSObservation.LookAngles.Elevation, 0.0)
	checkPass(t, len(passes)-1, &last, start, end, 0)
}
