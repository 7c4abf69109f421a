package sgp4

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultPassStep = time.Minute
	crossingTol     = 100 * time.Millisecond
	maxPasses       = 100 // safety limit per search
)

// findCrossing bisects [t1, t2] for the instant the elevation crosses
// threshold. rising is true for AOS, false for LOS.
func (o *Observer) findCrossing(sat *Satellite, t1, t2 time.Time, threshold float64, rising bool) time.Time {
	for i := 0; i < 50 && t2.Sub(t1) > crossingTol; i++ {
		tmid := t1.Add(t2.Sub(t1) / 2)
		el, _, err := o.elevation(sat, tmid)
		if err != nil {
			return tmid
		}
		if (el < threshold) == rising {
			t1 = tmid
		} else {
			t2 = tmid
		}
	}
	return t1.Add(t2.Sub(t1) / 2)
}

// findMaxElevation searches [start, end] for the highest elevation, first
// on a coarse grid and then around the best coarse sample.
func (o *Observer) findMaxElevation(sat *Satellite, start, end time.Time) (maxEl float64, maxTime time.Time) {
	const steps = 100
	dt := end.Sub(start) / steps
	if dt <= 0 {
		el, _, _ := o.elevation(sat, start)
		return el, start
	}

	maxEl = -90.0
	maxTime = start
	scan := func(from, to time.Time, step time.Duration) {
		for t := from; !t.After(to); t = t.Add(step) {
			el, _, err := o.elevation(sat, t)
			if err != nil {
				continue
			}
			if el > maxEl {
				maxEl = el
				maxTime = t
			}
		}
	}
	scan(start, end, dt)
	if maxTime.After(start) && maxTime.Before(end) && dt/10 > 0 {
		scan(maxTime.Add(-dt), maxTime.Add(dt), dt/10)
	}
	return maxEl, maxTime
}

// FindPasses predicts the passes of sat above minElevation degrees between
// start and end. The window is scanned every step (one minute when step is
// not positive), AOS and LOS are refined by bisection and each pass carries
// the scanned samples for plotting. A pass in progress at start or end is
// clipped to the window, with LOS at end even when end is not on a step.
func (o *Observer) FindPasses(sat *Satellite, start, end time.Time, minElevation float64, step time.Duration) ([]PassDetails, error) {
	if start.After(end) {
		return nil, errors.New("start time must be before end time")
	}
	if step <= 0 {
		step = defaultPassStep
	}

	var (
		passes  []PassDetails
		current *PassDetails
		prevT   time.Time
		prevEl  = math.Inf(-1)
	)

	closePass := func(los time.Time) error {
		obs, err := o.Look(sat, los)
		if err != nil {
			return err
		}
		current.LOS = los
		current.LOSAzimuth = obs.LookAngles.Azimuth
		current.LOSObservation = *obs
		if n := len(current.DataPoints); n == 0 || los.After(current.DataPoints[n-1].Timestamp) {
			current.DataPoints = append(current.DataPoints, dataPoint(obs))
		}

		maxEl, tca := o.findMaxElevation(sat, current.AOS, current.LOS)
		for _, dp := range current.DataPoints {
			if dp.Elevation > maxEl {
				maxEl, tca = dp.Elevation, dp.Timestamp
			}
		}
		maxObs, err := o.Look(sat, tca)
		if err != nil {
			return err
		}
		current.MaxElevation = maxEl
		current.MaxElevationAz = maxObs.LookAngles.Azimuth
		current.MaxElevationTime = tca
		current.MaxElObservation = *maxObs
		current.Duration = current.LOS.Sub(current.AOS)
		passes = append(passes, *current)
		current = nil
		return nil
	}

	for t := start; !t.After(end); t = t.Add(step) {
		obs, err := o.Look(sat, t)
		if err != nil {
			return passes, errors.Wrapf(err, "propagating to %s", t.Format(time.RFC3339))
		}
		el := obs.LookAngles.Elevation

		if current == nil && el >= minElevation {
			aos := t
			if prevEl != math.Inf(-1) {
				aos = o.findCrossing(sat, prevT, t, minElevation, true)
			}
			aosObs, err := o.Look(sat, aos)
			if err != nil {
				return passes, err
			}
			current = &PassDetails{
				AOS:            aos,
				AOSAzimuth:     aosObs.LookAngles.Azimuth,
				AOSObservation: *aosObs,
				DataPoints:     []PassDataPoint{dataPoint(aosObs)},
			}
		}

		if current != nil {
			if el >= minElevation {
				if t.After(current.AOS) {
					current.DataPoints = append(current.DataPoints, dataPoint(obs))
				}
			} else {
				los := o.findCrossing(sat, prevT, t, minElevation, false)
				if err := closePass(los); err != nil {
					return passes, err
				}
				if len(passes) >= maxPasses {
					return passes, nil
				}
			}
		}

		prevT, prevEl = t, el
	}

	// a pass still up at the last sample is closed at end, or at the
	// crossing when it sets between the last sample and end
	if current != nil {
		los := end
		if prevT.Before(end) {
			el, _, err := o.elevation(sat, end)
			if err != nil {
				return passes, err
			}
			if el < minElevation {
				los = o.findCrossing(sat, prevT, end, minElevation, false)
			}
		}
		if err := closePass(los); err != nil {
			return passes, err
		}
	}
	return passes, nil
}

func dataPoint(obs *Observation) PassDataPoint {
	return PassDataPoint{
		Timestamp: obs.SatellitePos.Timestamp,
		Azimuth:   obs.LookAngles.Azimuth,
		Elevation: obs.LookAngles.Elevation,
		Range:     obs.LookAngles.Range,
		RangeRate: obs.LookAngles.RangeRate,
	}
}
