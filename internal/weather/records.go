package weather

import (
	"fmt"
	"strings"
	"time"
)

// Location returns the fixed zone the provider reported for the forecast
// point. Snapshots without zone information render in UTC.
func (s *Snapshot) Location() *time.Location {
	if s == nil || (s.Timezone == "" && s.TZOffset == 0) {
		return time.UTC
	}
	return time.FixedZone(s.Timezone, s.TZOffset)
}

// Time returns the observation time.
func (c Conditions) Time() time.Time {
	return time.Unix(c.Timestamp, 0).UTC()
}

// Condition classifies the primary status of the observation.
func (c Conditions) Condition() Condition {
	return classify(c.Status)
}

// Time returns the start of the forecast day.
func (d Daily) Time() time.Time {
	return time.Unix(d.Timestamp, 0).UTC()
}

// Condition classifies the primary status of the day.
func (d Daily) Condition() Condition {
	return classify(d.Status)
}

// DayOfWeek returns the weekday name of the forecast day in loc.
func (d Daily) DayOfWeek(loc *time.Location) string {
	return d.Time().In(loc).Weekday().String()
}

// SunriseTime returns the reported sunrise, if any.
func (d Daily) SunriseTime() (time.Time, bool) {
	return optionalTime(d.Sunrise)
}

// SunsetTime returns the reported sunset, if any.
func (d Daily) SunsetTime() (time.Time, bool) {
	return optionalTime(d.Sunset)
}

// Time returns the minute the nowcast refers to.
func (m Minutely) Time() time.Time {
	return time.Unix(m.Timestamp, 0).UTC()
}

// When describes the period the alert is active in loc. The end date is
// omitted when the alert starts and ends on the same day.
func (a Alert) When(loc *time.Location) string {
	start := time.Unix(a.Start, 0).In(loc)
	end := time.Unix(a.End, 0).In(loc)

	if start.Format(time.DateOnly) != end.Format(time.DateOnly) {
		return fmt.Sprintf("%s %s to %s %s",
			start.Format(time.DateOnly), start.Format(time.TimeOnly),
			end.Format(time.DateOnly), end.Format(time.TimeOnly))
	}
	return fmt.Sprintf("%s %s to %s",
		start.Format(time.DateOnly), start.Format(time.TimeOnly), end.Format(time.TimeOnly))
}

// PrecipitationWithin sums the nowcast volume over the next d.
func (s *Snapshot) PrecipitationWithin(d time.Duration) float64 {
	if s == nil || len(s.Minutely) == 0 {
		return 0
	}
	cutoff := s.Minutely[0].Time().Add(d)

	var total float64
	for _, m := range s.Minutely {
		if !m.Time().Before(cutoff) {
			break
		}
		total += m.Precipitation
	}
	return total
}

func optionalTime(ts *int64) (time.Time, bool) {
	if ts == nil {
		return time.Time{}, false
	}
	return time.Unix(*ts, 0).UTC(), true
}

func classify(items []Status) Condition {
	if len(items) == 0 {
		return ConditionUnknown
	}
	switch items[0].Main {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionCloudy
	case "Rain", "Drizzle":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Thunderstorm":
		return ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke", "Dust":
		return ConditionMist
	}

	desc := strings.ToLower(items[0].Description)
	switch {
	case hasAny(desc, "thunder", "storm", "squall", "tornado"):
		return ConditionStorm
	case hasAny(desc, "snow", "sleet"):
		return ConditionSnow
	case hasAny(desc, "rain", "shower", "drizzle"):
		return ConditionRain
	case hasAny(desc, "mist", "fog", "haze"):
		return ConditionMist
	default:
		return ConditionUnknown
	}
}

// hasAny returns true if s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
