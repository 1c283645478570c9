package geocoders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-companion/internal/location"
)

const googleReverse = `{"status": "OK", "results": [{
	"formatted_address": "Ruinerwold, Netherlands",
	"types": ["locality"],
	"address_components": [
		{"long_name": "Ruinerwold", "types": ["locality"]},
		{"long_name": "Netherlands", "types": ["country"]}
	]
}]}`

// serveGoogle points the geocoding client at a stub answering forward
// lookups with forward and reverse lookups with reverse.
func serveGoogle(t *testing.T, forward, reverse string) *Google {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		if r.URL.Query().Get("latlng") != "" {
			_, _ = w.Write([]byte(reverse))
			return
		}
		assert.NotEmpty(t, r.URL.Query().Get("address"))
		_, _ = w.Write([]byte(forward))
	}))
	t.Cleanup(srv.Close)

	prevKey, prevURL := geocoder.ApiKey, geocoder.ApiUrl
	t.Cleanup(func() { geocoder.ApiKey, geocoder.ApiUrl = prevKey, prevURL })

	return NewGoogle("k", srv.URL+"/maps/api/geocode/json?")
}

func TestGoogleSingleMatch(t *testing.T) {
	g := serveGoogle(t, `{"status": "OK", "results": [{
		"types": ["locality"],
		"geometry": {"location": {"lat": 52.72, "lng": 6.25}}
	}]}`, googleReverse)

	points, err := g.Search(context.Background(), "Ruinerwold")
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, 52.72, points[0].Latitude)
	require.Equal(t, 6.25, points[0].Longitude)
	require.Equal(t, "Ruinerwold, Netherlands", points[0].Label)
}

func TestGoogleReverseFailureKeepsQueryLabel(t *testing.T) {
	g := serveGoogle(t, `{"status": "OK", "results": [{
		"types": ["locality"],
		"geometry": {"location": {"lat": 52.72, "lng": 6.25}}
	}]}`, `{"status": "UNKNOWN_ERROR", "results": []}`)

	points, err := g.Search(context.Background(), "Ruinerwold")
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, "Ruinerwold", points[0].Label)
}

func TestGoogleZeroResultsIsEmptyMatch(t *testing.T) {
	g := serveGoogle(t, `{"results": [], "status": "ZERO_RESULTS"}`, googleReverse)

	points, err := g.Search(context.Background(), "Nowhereville")
	require.NoError(t, err)
	require.NotNil(t, points)
	require.Empty(t, points)
}

func TestGoogleFailures(t *testing.T) {
	cases := map[string]struct {
		body      string
		malformed bool
	}{
		"over quota":      {body: `{"results": [], "status": "OVER_QUERY_LIMIT"}`},
		"denied":          {body: `{"results": [], "status": "REQUEST_DENIED", "error_message": "bad key"}`},
		"not json":        {body: `<html>`, malformed: true},
		"ok without data": {body: `{"results": [], "status": "OK"}`, malformed: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			g := serveGoogle(t, tc.body, googleReverse)
			points, err := g.Search(context.Background(), "Springfield")
			require.Error(t, err)
			require.Nil(t, points)
			require.Equal(t, tc.malformed, errors.Is(err, location.ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestGoogleRequiresKey(t *testing.T) {
	g := serveGoogle(t, `{}`, `{}`)
	geocoder.ApiKey = ""

	_, err := g.Search(context.Background(), "Ruinerwold")
	require.Error(t, err)
}
