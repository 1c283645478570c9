package weather

import (
	"context"
	"errors"

	"github.com/i474232898/weather-companion/internal/units"
)

// ErrMalformedResponse marks a provider payload that could not be decoded.
// Unlike transport failures it is not reported as "no data": the workflow
// that triggered the request is aborted with a diagnostic.
var ErrMalformedResponse = errors.New("malformed provider response")

// Request identifies a forecast. Credentials are held by the Fetcher.
type Request struct {
	Latitude  float64
	Longitude float64
	Units     units.Units
}

// RequestFor builds the forecast request for a location point.
func RequestFor(p LocationPoint, u units.Units) Request {
	return Request{Latitude: p.Latitude, Longitude: p.Longitude, Units: u}
}

// Fetcher abstracts a weather data source (e.g. OpenWeather One Call).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) (*Snapshot, error)
}
