package sgp4

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	jd2000         = 2451545.0
	daysPerCentury = 36525.0
	secondsPerDay  = 86400.0
)

// days2mdhms splits a fractional day of year into month, day, hour, minute
// and seconds. Leap years are every fourth year.
func days2mdhms(year int, days float64) (mon, day, hr, minute int, sec float64) {
	lmonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if year%4 == 0 {
		lmonth[1] = 29
	}

	dayofyr := int(math.Floor(days))
	i, inttemp := 1, 0
	for dayofyr > inttemp+lmonth[i-1] && i < 12 {
		inttemp += lmonth[i-1]
		i++
	}
	mon = i
	day = dayofyr - inttemp

	temp := (days - float64(dayofyr)) * 24
	hr = int(math.Floor(temp))
	temp = (temp - float64(hr)) * 60
	minute = int(math.Floor(temp))
	sec = (temp - float64(minute)) * 60
	return
}

// gstime is the IAU-82 Greenwich mean sidereal time at UT1 Julian date
// jdut1, radians in [0, 2π).
func gstime(jdut1 float64) float64 {
	tut1 := (jdut1 - jd2000) / daysPerCentury
	temp := -6.2e-6*tut1*tut1*tut1 + 0.093104*tut1*tut1 +
		(876600.0*3600+8640184.812866)*tut1 + 67310.54841 // seconds
	temp = math.Mod(temp*deg2rad/240.0, twoPi)
	if temp < 0 {
		temp += twoPi
	}
	return temp
}

// ThetaG is the Greenwich mean sidereal time at jd in radians, with the
// polynomial of the 1992 Astronomical Almanac evaluated at 0h UT of the day.
func ThetaG(jd float64) float64 {
	ut := math.Mod(jd+0.5, 1.0)
	tcen := (jd - ut - jd2000) / daysPerCentury
	gmst := 24110.54841 + tcen*(8640184.812866+tcen*(0.093104-tcen*6.2e-6))
	gmst = math.Mod(gmst+secondsPerDay*1.00273790934*ut, secondsPerDay)
	if gmst < 0 {
		gmst += secondsPerDay
	}
	return twoPi * gmst / secondsPerDay
}

// JulianDate converts t to a Julian date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}
