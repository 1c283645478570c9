package geocoders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-companion/internal/weather"
)

// zeroResults is the error text the client library produces for a
// ZERO_RESULTS status.
const zeroResults = "No results found."

// Google resolves queries with the Google Geocoding API. It only ever yields
// the single best match, so searches through it short-circuit straight to a
// weather fetch.
type Google struct{}

// NewGoogle configures the geocoding API key and, when baseURL is not empty,
// the endpoint. The underlying client keeps both in package state, so they
// apply process-wide. baseURL must end with "?".
func NewGoogle(apiKey, baseURL string) *Google {
	geocoder.ApiKey = apiKey
	if baseURL != "" {
		geocoder.ApiUrl = baseURL
	}
	return &Google{}
}

func (g *Google) Name() string {
	return "google"
}

// Search geocodes query and labels the result with the reverse-geocoded
// address when available. A query without matches yields an empty slice.
// The client is not context aware; ctx is only checked before the call.
func (g *Google) Search(ctx context.Context, query string) ([]weather.LocationPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if geocoder.ApiKey == "" {
		return nil, errors.New("google geocoding api key is not configured")
	}

	loc, err := geocode(query)
	if err != nil {
		if err.Error() == zeroResults {
			return []weather.LocationPoint{}, nil
		}
		return nil, err
	}

	label := query
	if addresses, err := geocoder.GeocodingReverse(loc); err == nil && len(addresses) > 0 {
		addr := addresses[0]
		if formatted := addr.FormatAddress(); formatted != "" {
			label = formatted
		}
	}

	return []weather.LocationPoint{{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Label:     label,
	}}, nil
}

// geocode wraps geocoder.Geocoding, which indexes the first result without
// checking it exists and returns raw decoding errors.
func geocode(query string) (loc geocoder.Location, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: ok status without results", weather.ErrMalformedResponse)
		}
	}()

	loc, err = geocoder.Geocoding(geocoder.Address{City: query})

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		err = fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	return loc, err
}
