// Package units describes the measurement systems a forecast can be requested in.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Units is a measurement system. The string value is what the weather provider
// expects as its "units" parameter and what the preferences file stores.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// Kind selects which unit-of-measure suffix a value is formatted with.
type Kind int

const (
	Temperature Kind = iota
	Speed
	Volume
)

// Parse maps a case-insensitive name onto a Units value.
func Parse(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// Valid reports whether u is one of the known systems.
func (u Units) Valid() bool {
	return u == Metric || u == Imperial
}

func (u Units) String() string {
	return string(u)
}

// Toggle returns the other measurement system.
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// TemperatureUnit returns the degree suffix.
func (u Units) TemperatureUnit() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedUnit returns the wind speed suffix.
func (u Units) SpeedUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// VolumeUnit returns the precipitation volume suffix.
func (u Units) VolumeUnit() string {
	if u == Imperial {
		return "in"
	}
	return "mm"
}

// Unit returns the suffix for kind.
func (u Units) Unit(kind Kind) string {
	switch kind {
	case Speed:
		return u.SpeedUnit()
	case Volume:
		return u.VolumeUnit()
	default:
		return u.TemperatureUnit()
	}
}

// Format renders value with at most one decimal place followed by the unit
// suffix for kind, e.g. "12.5 °C" or "3 mph".
func (u Units) Format(value float64, kind Kind) string {
	digits := 1
	if kind == Volume && u == Imperial {
		digits = 2
	}
	return strconv.FormatFloat(round(value, digits), 'f', -1, 64) + " " + u.Unit(kind)
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
