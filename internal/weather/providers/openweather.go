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
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/onecall"
	mmPerInch          = 25.4
)

// OpenWeatherProvider implements weather.Fetcher for the OpenWeather One Call API.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NewOpenWeatherProvider creates a One Call client. An empty baseURL selects
// the public endpoint.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: NewBreaker("openweather"),
		now:     time.Now,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Fetch requests the full forecast for req. Optional payload fields (rain,
// snow, gusts, visibility, alerts) default to zero values; a payload that does
// not decode or lacks the current observation is reported as
// weather.ErrMalformedResponse.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, req weather.Request) (*weather.Snapshot, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}
	if !req.Units.Valid() {
		return nil, fmt.Errorf("openweather: unsupported units %q", req.Units)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(req.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(req.Longitude, 'f', -1, 64))
		values.Set("units", req.Units.String())
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := DoRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var snapshot weather.Snapshot
	if err := DecodeJSON(resp.Body, &snapshot, weather.ErrMalformedResponse); err != nil {
		return nil, err
	}
	if snapshot.Current.Timestamp == 0 {
		return nil, fmt.Errorf("%w: missing current observation", weather.ErrMalformedResponse)
	}

	snapshot.Units = req.Units
	snapshot.FetchedAt = p.now().UTC()
	if req.Units == units.Imperial {
		toInches(&snapshot)
	}
	return &snapshot, nil
}

// toInches converts precipitation volumes, which One Call always reports in
// millimetres, so imperial snapshots are consistent with their units.
func toInches(s *weather.Snapshot) {
	convert := func(c *weather.Conditions) {
		c.Rain.LastHour /= mmPerInch
		c.Snow.LastHour /= mmPerInch
	}

	convert(&s.Current)
	for i := range s.Hourly {
		convert(&s.Hourly[i])
	}
	for i := range s.Daily {
		s.Daily[i].Rain /= mmPerInch
		s.Daily[i].Snow /= mmPerInch
	}
	for i := range s.Minutely {
		s.Minutely[i].Precipitation /= mmPerInch
	}
}
