package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/weather"
)

const (
	openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

	openMeteoCurrent = "temperature_2m,relative_humidity_2m,apparent_temperature,rain,snowfall," +
		"weather_code,cloud_cover,pressure_msl,wind_speed_10m,wind_direction_10m,wind_gusts_10m"
	openMeteoHourly = "temperature_2m,apparent_temperature,weather_code,precipitation_probability,wind_speed_10m"
	openMeteoDaily  = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset," +
		"rain_sum,snowfall_sum,precipitation_probability_max,wind_speed_10m_max"

	mmPerCm = 10
)

// OpenMeteoProvider implements weather.Fetcher for Open-Meteo. It needs no
// API key; minutely nowcasts and alerts are not available from it.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewOpenMeteoProvider creates an Open-Meteo client. An empty baseURL selects
// the public endpoint.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = openMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		circuit: NewBreaker("openmeteo"),
		now:     time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoPayload struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	UTCOffset    int     `json:"utc_offset_seconds"`
	Abbreviation string  `json:"timezone_abbreviation"`

	Current *struct {
		Time          int64   `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Humidity      int     `json:"relative_humidity_2m"`
		ApparentTemp  float64 `json:"apparent_temperature"`
		Rain          float64 `json:"rain"`
		Snowfall      float64 `json:"snowfall"`
		WeatherCode   int     `json:"weather_code"`
		CloudCover    float64 `json:"cloud_cover"`
		Pressure      float64 `json:"pressure_msl"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection int     `json:"wind_direction_10m"`
		WindGusts     float64 `json:"wind_gusts_10m"`
	} `json:"current"`

	Hourly struct {
		Time         []int64   `json:"time"`
		Temperature  []float64 `json:"temperature_2m"`
		ApparentTemp []float64 `json:"apparent_temperature"`
		WeatherCode  []int     `json:"weather_code"`
		PrecipProb   []float64 `json:"precipitation_probability"`
		WindSpeed    []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`

	Daily struct {
		Time        []int64   `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		Sunrise     []int64   `json:"sunrise"`
		Sunset      []int64   `json:"sunset"`
		RainSum     []float64 `json:"rain_sum"`
		SnowSum     []float64 `json:"snowfall_sum"`
		PrecipProb  []float64 `json:"precipitation_probability_max"`
		WindMax     []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Fetch requests current conditions, an hourly and a daily forecast in the
// units of req. A payload that does not decode or has no current block is
// reported as weather.ErrMalformedResponse.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, req weather.Request) (*weather.Snapshot, error) {
	if !req.Units.Valid() {
		return nil, fmt.Errorf("openmeteo: unsupported units %q", req.Units)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(req.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(req.Longitude, 'f', -1, 64))
		values.Set("current", openMeteoCurrent)
		values.Set("hourly", openMeteoHourly)
		values.Set("daily", openMeteoDaily)
		values.Set("timezone", "auto")
		values.Set("timeformat", "unixtime")
		if req.Units == units.Imperial {
			values.Set("temperature_unit", "fahrenheit")
			values.Set("wind_speed_unit", "mph")
			values.Set("precipitation_unit", "inch")
		} else {
			values.Set("wind_speed_unit", "ms")
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := DoRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := DecodeJSON(resp.Body, &payload, weather.ErrMalformedResponse); err != nil {
		return nil, err
	}
	if payload.Current == nil || payload.Current.Time == 0 {
		return nil, fmt.Errorf("%w: missing current block", weather.ErrMalformedResponse)
	}

	snapshot := payload.toSnapshot(req.Units)
	snapshot.FetchedAt = p.now().UTC()
	return snapshot, nil
}

func (om *openMeteoPayload) toSnapshot(u units.Units) *weather.Snapshot {
	// Snowfall is reported in centimetres for metric requests.
	snowScale := 1.0
	if u == units.Metric {
		snowScale = mmPerCm
	}

	c := om.Current
	s := &weather.Snapshot{
		Latitude:  om.Latitude,
		Longitude: om.Longitude,
		Timezone:  om.Abbreviation,
		TZOffset:  om.UTCOffset,
		Units:     u,
		Current: weather.Conditions{
			Timestamp: c.Time,
			Temp:      c.Temperature,
			FeelsLike: c.ApparentTemp,
			Pressure:  int(c.Pressure),
			Humidity:  c.Humidity,
			Clouds:    c.CloudCover,
			WindSpeed: c.WindSpeed,
			WindDeg:   c.WindDirection,
			WindGust:  c.WindGusts,
			Rain:      weather.Volume{LastHour: c.Rain},
			Snow:      weather.Volume{LastHour: c.Snowfall * snowScale},
			Status:    openMeteoStatus(c.WeatherCode),
		},
	}

	h := om.Hourly
	for i, ts := range h.Time {
		s.Hourly = append(s.Hourly, weather.Conditions{
			Timestamp: ts,
			Temp:      at(h.Temperature, i),
			FeelsLike: at(h.ApparentTemp, i),
			WindSpeed: at(h.WindSpeed, i),
			Pop:       at(h.PrecipProb, i) / 100,
			Status:    openMeteoStatus(at(h.WeatherCode, i)),
		})
	}

	d := om.Daily
	for i, ts := range d.Time {
		day := weather.Daily{
			Timestamp: ts,
			Temp:      weather.DayTemps{Min: at(d.TempMin, i), Max: at(d.TempMax, i)},
			WindSpeed: at(d.WindMax, i),
			Rain:      at(d.RainSum, i),
			Snow:      at(d.SnowSum, i) * snowScale,
			Pop:       at(d.PrecipProb, i) / 100,
			Status:    openMeteoStatus(at(d.WeatherCode, i)),
		}
		if v := at(d.Sunrise, i); v != 0 {
			day.Sunrise = &v
		}
		if v := at(d.Sunset, i); v != 0 {
			day.Sunset = &v
		}
		s.Daily = append(s.Daily, day)
	}
	return s
}

// at returns xs[i], or the zero value when the series is shorter than the
// time axis.
func at[T any](xs []T, i int) T {
	var zero T
	if i < len(xs) {
		return xs[i]
	}
	return zero
}

// openMeteoStatus maps a WMO weather code onto the status vocabulary used by
// the rest of the records.
func openMeteoStatus(code int) []weather.Status {
	main, desc := "", "unknown"
	switch {
	case code == 0:
		main, desc = "Clear", "clear sky"
	case code >= 1 && code <= 3:
		main, desc = "Clouds", "partly cloudy"
		if code == 3 {
			desc = "overcast"
		}
	case code == 45 || code == 48:
		main, desc = "Fog", "fog"
	case code >= 51 && code <= 57:
		main, desc = "Drizzle", "drizzle"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		main, desc = "Rain", "rain"
		if code >= 80 {
			desc = "rain showers"
		}
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		main, desc = "Snow", "snow"
	case code >= 95:
		main, desc = "Thunderstorm", "thunderstorm"
	}
	return []weather.Status{{ID: code, Main: main, Description: desc}}
}
