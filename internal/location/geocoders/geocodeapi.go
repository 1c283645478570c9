// Package geocoders implements location.Searcher backends.
package geocoders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-companion/internal/location"
	"github.com/i474232898/weather-companion/internal/weather"
	"github.com/i474232898/weather-companion/internal/weather/providers"
)

const geocodeAPIBaseURL = "https://app.geocodeapi.io/api/v1"

// GeocodeAPI searches the geocodeapi.io Pelias endpoint.
type GeocodeAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewGeocodeAPI creates a search client. An empty baseURL selects the public
// endpoint.
func NewGeocodeAPI(client *http.Client, apiKey, baseURL string) *GeocodeAPI {
	if baseURL == "" {
		baseURL = geocodeAPIBaseURL
	}
	return &GeocodeAPI{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		circuit: providers.NewBreaker("geocodeapi"),
	}
}

func (g *GeocodeAPI) Name() string {
	return "geocodeapi"
}

type featureCollection struct {
	Features *[]feature `json:"features"`
}

type feature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Label     string `json:"label"`
		MatchType string `json:"match_type"`
	} `json:"properties"`
}

// Search returns every candidate feature for query. When the backend marks a
// feature as an exact match only that feature is returned.
func (g *GeocodeAPI) Search(ctx context.Context, query string) ([]weather.LocationPoint, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("apikey", g.apiKey)
		values.Set("text", query)

		u := fmt.Sprintf("%s/search?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := providers.DoRequest(ctx, g.client, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload featureCollection
	if err := providers.DecodeJSON(resp.Body, &payload, location.ErrMalformedResponse); err != nil {
		return nil, err
	}
	if payload.Features == nil {
		return nil, fmt.Errorf("%w: response has no features", location.ErrMalformedResponse)
	}

	points := make([]weather.LocationPoint, 0, len(*payload.Features))
	for _, f := range *payload.Features {
		p, err := f.point()
		if err != nil {
			return nil, err
		}
		if f.Properties.MatchType == "exact" {
			return []weather.LocationPoint{p}, nil
		}
		points = append(points, p)
	}
	return points, nil
}

// point converts a GeoJSON feature; coordinates are [lon, lat].
func (f feature) point() (weather.LocationPoint, error) {
	if len(f.Geometry.Coordinates) < 2 {
		return weather.LocationPoint{}, fmt.Errorf("%w: feature %q has no coordinates", location.ErrMalformedResponse, f.Properties.Label)
	}
	return weather.LocationPoint{
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
		Label:     f.Properties.Label,
	}, nil
}
