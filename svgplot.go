package sgp4

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Polar plot geometry: zenith at the centre, horizon on the outer circle,
// north up and east to the right.
const (
	svgWidth               = 600
	svgHeight              = 600
	plotMargin             = 50
	plotCenterX            = svgWidth / 2
	plotCenterY            = svgHeight / 2
	plotRadius             = (svgWidth / 2) - plotMargin
	labelFontSize          = 16 // N, E, S, W
	elevationLabelFontSize = 10
	foregroundColor        = "black"
	secondaryColor         = "dimgray"
	gridLineStrokeWidth    = "1"
	pathStrokeWidth        = "3"
	pointRadius            = 5.0
	labelOffsetPoints      = 8.0
)

func polarToCartesian(azimuth, elevation, radius float64) (x, y float64) {
	r := radius * (1.0 - elevation/90.0)
	azRad := azimuth * deg2rad
	return plotCenterX + r*math.Sin(azRad), plotCenterY - r*math.Cos(azRad)
}

// elevationToColor runs from red on the horizon to green at the zenith.
func elevationToColor(elevation float64) string {
	t := math.Max(0, math.Min(90, elevation)) / 90.0
	return fmt.Sprintf("#%02x%02x00", int(255*(1.0-t)), int(255*t))
}

type svgWriter struct {
	w   io.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *svgWriter) text(x, y float64, color string, size float64, anchor, baseline, label string) {
	s.printf(`<text x="%.2f" y="%.2f" fill="%s" font-size="%.0f" text-anchor="%s" dominant-baseline="%s">%s</text>`,
		x, y, color, size, anchor, baseline, label)
}

func (s *svgWriter) marker(obs *Observation, fill, stroke string, r float64) (x, y float64) {
	x, y = polarToCartesian(obs.LookAngles.Azimuth, obs.LookAngles.Elevation, plotRadius)
	s.printf(`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s" stroke="%s" stroke-width="0.5"/>`, x, y, r, fill, stroke)
	return x, y
}

func (s *svgWriter) grid() {
	s.printf(`<circle cx="%d" cy="%d" r="%d" stroke="%s" stroke-width="%s" fill="none"/>`,
		plotCenterX, plotCenterY, plotRadius, foregroundColor, gridLineStrokeWidth)

	for _, el := range []float64{10, 30, 60} {
		radius := plotRadius * (1.0 - el/90.0)
		s.printf(`<circle cx="%d" cy="%d" r="%.2f" stroke="%s" stroke-width="0.5" fill="none" stroke-dasharray="4,4"/>`,
			plotCenterX, plotCenterY, radius, secondaryColor)
		s.text(plotCenterX+5, plotCenterY-radius-3, secondaryColor, elevationLabelFontSize, "start", "alphabetic", fmt.Sprintf("%.0f°", el))
	}
	s.text(plotCenterX, plotCenterY, secondaryColor, elevationLabelFontSize, "middle", "middle", "90°")

	const tickLength = 8.0
	nudge := labelFontSize * 0.4
	cardinals := []struct {
		label            string
		az               float64
		dx, dy           float64
		anchor, baseline string
	}{
		{"N", 0, 0, -nudge, "middle", "alphabetic"},
		{"E", 90, nudge, 0, "start", "middle"},
		{"S", 180, 0, nudge, "middle", "hanging"},
		{"W", 270, -nudge, 0, "end", "middle"},
	}
	for _, c := range cardinals {
		x1, y1 := polarToCartesian(c.az, 0, plotRadius)
		x2, y2 := polarToCartesian(c.az, 0, plotRadius+tickLength)
		s.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%s"/>`,
			x1, y1, x2, y2, foregroundColor, gridLineStrokeWidth)
		lx, ly := polarToCartesian(c.az, 0, plotRadius+15)
		s.text(lx+c.dx, ly+c.dy, foregroundColor, labelFontSize, c.anchor, c.baseline, c.label)
	}
}

// WritePolarSVG draws the pass on a polar sky plot: the track coloured by
// elevation with AOS, LOS and culmination marked.
func (p *PassDetails) WritePolarSVG(w io.Writer) error {
	s := &svgWriter{w: w}
	s.printf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" style="background-color:white;">`, svgWidth, svgHeight)
	if len(p.DataPoints) < 2 {
		s.printf(`<rect width="100%%" height="100%%" fill="white"/><text x="50" y="50" fill="black">Not enough data points for pass plot.</text></svg>`)
		return s.err
	}

	s.grid()

	for i := 0; i+1 < len(p.DataPoints); i++ {
		a, b := p.DataPoints[i], p.DataPoints[i+1]
		x1, y1 := polarToCartesian(a.Azimuth, a.Elevation, plotRadius)
		x2, y2 := polarToCartesian(b.Azimuth, b.Elevation, plotRadius)
		s.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%s"/>`,
			x1, y1, x2, y2, elevationToColor((a.Elevation+b.Elevation)/2), pathStrokeWidth)
	}

	x, y := s.marker(&p.AOSObservation, "darkblue", "black", pointRadius)
	s.text(x, y-labelOffsetPoints, "darkblue", 12, "middle", "text-after-edge", "AOS")
	x, y = s.marker(&p.LOSObservation, "darkred", "black", pointRadius)
	s.text(x, y+labelOffsetPoints, "darkred", 12, "middle", "text-before-edge", "LOS")

	x, y = s.marker(&p.MaxElObservation, "lime", "darkgreen", pointRadius+1)
	anchor, dx, dy := "middle", 0.0, -(labelOffsetPoints + 2)
	switch az := p.MaxElObservation.LookAngles.Azimuth; {
	case az > 45 && az < 135:
		anchor, dx, dy = "start", labelOffsetPoints, 0
	case az > 225 && az < 315:
		anchor, dx, dy = "end", -labelOffsetPoints, 0
	case az >= 135 && az <= 225:
		dy = labelOffsetPoints + 2
	}
	s.text(x+dx, y+dy, "darkgreen", 12, anchor, "middle", fmt.Sprintf("%.0f°", p.MaxElevation))

	s.printf(`</svg>`)
	return s.err
}

// PolarSVG returns WritePolarSVG's output as a string.
func (p *PassDetails) PolarSVG() string {
	var b strings.Builder
	_ = p.WritePolarSVG(&b)
	return b.String()
}
