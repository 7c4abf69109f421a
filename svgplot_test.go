package sgp4

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolarToCartesian(t *testing.T) {
	tests := []struct {
		name   string
		az, el float64
		x, y   float64
	}{
		{"zenith", 123, 90, plotCenterX, plotCenterY},
		{"north horizon", 0, 0, plotCenterX, plotCenterY - plotRadius},
		{"east horizon", 90, 0, plotCenterX + plotRadius, plotCenterY},
		{"south, 45 degrees", 180, 45, plotCenterX, plotCenterY + plotRadius/2},
		{"west horizon", 270, 0, plotCenterX - plotRadius, plotCenterY},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := polarToCartesian(tt.az, tt.el, plotRadius)
			assert.InDelta(t, tt.x, x, 1e-9)
			assert.InDelta(t, tt.y, y, 1e-9)
		})
	}
}

func TestElevationToColor(t *testing.T) {
	assert.Equal(t, "#ff0000", elevationToColor(0))
	assert.Equal(t, "#ff0000", elevationToColor(-5))
	assert.Equal(t, "#7f7f00", elevationToColor(45))
	assert.Equal(t, "#00ff00", elevationToColor(90))
}

func testPass() *PassDetails {
	aos := time.Date(2025, 1, 25, 3, 0, 0, 0, time.UTC)
	obs := func(az, el float64) Observation {
		return Observation{LookAngles: TopocentricCoords{Azimuth: az, Elevation: el}}
	}
	p := &PassDetails{
		AOS:              aos,
		LOS:              aos.Add(6 * time.Minute),
		MaxElevation:     62,
		MaxElevationAz:   100,
		AOSObservation:   obs(200, 10),
		MaxElObservation: obs(100, 62),
		LOSObservation:   obs(30, 10),
	}
	for i, el := range []float64{10, 35, 62, 40, 10} {
		p.DataPoints = append(p.DataPoints, PassDataPoint{
			Timestamp: aos.Add(time.Duration(i) * 90 * time.Second),
			Azimuth:   200 - float64(i)*42.5,
			Elevation: el,
		})
	}
	return p
}

func TestWritePolarSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testPass().WritePolarSVG(&buf))
	svg := buf.String()

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	for _, label := range []string{">N<", ">E<", ">S<", ">W<", ">AOS<", ">LOS<", ">62°<", ">30°<"} {
		assert.Contains(t, svg, label)
	}
	// four track segments and four cardinal ticks
	assert.Equal(t, 8, strings.Count(svg, "<line "))
	// horizon, three elevation rings and three markers
	assert.Equal(t, 7, strings.Count(svg, "<circle "))
	// culmination east of north puts the label on the right
	assert.Contains(t, svg, `text-anchor="start" dominant-baseline="middle">62°`)

	assert.Equal(t, svg, testPass().PolarSVG())
}

func TestWritePolarSVGNotEnoughPoints(t *testing.T) {
	p := &PassDetails{DataPoints: []PassDataPoint{{Elevation: 12}}}
	svg := p.PolarSVG()
	assert.Contains(t, svg, "Not enough data points")
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.NotContains(t, svg, "<circle")
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestWritePolarSVGWriteError(t *testing.T) {
	w := &failingWriter{n: 3}
	err := testPass().WritePolarSVG(w)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 0, w.n)
}
