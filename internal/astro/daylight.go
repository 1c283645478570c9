// Package astro estimates sunrise and sunset for forecast days the provider
// reported without them.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// horizon is the solar altitude at rise and set, accounting for refraction
// and the radius of the solar disc.
const horizon = -0.833

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// Daylight returns sunrise and sunset in UTC for the UTC calendar day of t.
// ok is false during polar day or polar night.
func Daylight(t time.Time, lat, lon float64) (sunrise, sunset time.Time, ok bool) {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	decl, eqTime := solarPosition(midnight.Add(12 * time.Hour))

	latRad := degToRad(lat)
	cosH := (math.Sin(degToRad(horizon)) - math.Sin(latRad)*math.Sin(decl)) /
		(math.Cos(latRad) * math.Cos(decl))
	if cosH < -1 || cosH > 1 {
		return time.Time{}, time.Time{}, false
	}
	ha := radToDeg(math.Acos(cosH))

	// minutes after midnight UTC
	noon := 720 - 4*lon - eqTime
	rise := noon - 4*ha
	set := noon + 4*ha

	return midnight.Add(minutes(rise)), midnight.Add(minutes(set)), true
}

// solarPosition returns the solar declination in radians and the equation of
// time in minutes.
func solarPosition(t time.Time) (decl, eqTime float64) {
	jd := julian.TimeToJD(t)
	T := (jd - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	omega := 125.04 - 1934.136*T
	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60

	decl = math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTime = radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4
	return decl, eqTime
}

func minutes(m float64) time.Duration {
	return time.Duration(math.Round(m * float64(time.Minute)))
}
