package weather

import (
	"time"

	"github.com/i474232898/weather-companion/internal/units"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// LocationPoint is a geocoded place. It has no identity beyond its fields.
type LocationPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Label     string  `json:"location"`
}

// Preferences is the persisted user choice of location and units. It is
// replaced wholesale on every change, never patched.
type Preferences struct {
	Location  string      `json:"location"`
	Latitude  float64     `json:"lat"`
	Longitude float64     `json:"lon"`
	Units     units.Units `json:"units"`
}

// NewPreferences builds preferences for a confirmed location.
func NewPreferences(p LocationPoint, u units.Units) Preferences {
	return Preferences{
		Location:  p.Label,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Units:     u,
	}
}

// Point returns the location the preferences refer to.
func (p Preferences) Point() LocationPoint {
	return LocationPoint{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Label:     p.Location,
	}
}

// Status is a provider weather code with its description and icon name.
type Status struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Volume is a precipitation amount over the last hour.
type Volume struct {
	LastHour float64 `json:"1h"`
}

// Conditions is a single current or hourly observation.
type Conditions struct {
	Timestamp  int64    `json:"dt"`
	Sunrise    *int64   `json:"sunrise,omitempty"`
	Sunset     *int64   `json:"sunset,omitempty"`
	Temp       float64  `json:"temp"`
	FeelsLike  float64  `json:"feels_like"`
	Pressure   int      `json:"pressure"`
	Humidity   int      `json:"humidity"`
	DewPoint   float64  `json:"dew_point"`
	UVI        float64  `json:"uvi"`
	Clouds     float64  `json:"clouds"`
	Visibility int      `json:"visibility"`
	WindSpeed  float64  `json:"wind_speed"`
	WindDeg    int      `json:"wind_deg"`
	WindGust   float64  `json:"wind_gust"`
	Rain       Volume   `json:"rain"`
	Snow       Volume   `json:"snow"`
	Status     []Status `json:"weather"`
	Pop        float64  `json:"pop"`
}

// DayTemps is the per-period temperature set of a daily record. Min and Max
// are only reported for actual temperatures, not for feels-like values.
type DayTemps struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
}

// Daily is a single day of the forecast.
type Daily struct {
	Timestamp int64    `json:"dt"`
	Sunrise   *int64   `json:"sunrise,omitempty"`
	Sunset    *int64   `json:"sunset,omitempty"`
	Temp      DayTemps `json:"temp"`
	FeelsLike DayTemps `json:"feels_like"`
	Pressure  int      `json:"pressure"`
	Humidity  int      `json:"humidity"`
	DewPoint  float64  `json:"dew_point"`
	UVI       float64  `json:"uvi"`
	Clouds    float64  `json:"clouds"`
	WindSpeed float64  `json:"wind_speed"`
	WindDeg   int      `json:"wind_deg"`
	WindGust  float64  `json:"wind_gust"`
	Rain      float64  `json:"rain"`
	Snow      float64  `json:"snow"`
	Status    []Status `json:"weather"`
	Pop       float64  `json:"pop"`
}

// Minutely is a one-minute precipitation nowcast.
type Minutely struct {
	Timestamp     int64   `json:"dt"`
	Precipitation float64 `json:"precipitation"`
}

// Alert is a government weather warning.
type Alert struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Snapshot is the complete weather state for one location at one point in
// time. A new snapshot always replaces the previous one; snapshots are never
// merged.
type Snapshot struct {
	Latitude  float64      `json:"lat"`
	Longitude float64      `json:"lon"`
	Timezone  string       `json:"timezone"`
	TZOffset  int          `json:"timezone_offset"`
	Current   Conditions   `json:"current"`
	Hourly    []Conditions `json:"hourly"`
	Daily     []Daily      `json:"daily"`
	Minutely  []Minutely   `json:"minutely"`
	Alerts    []Alert      `json:"alerts"`
	Units     units.Units  `json:"units"`
	FetchedAt time.Time    `json:"fetchedAt"`
}
