package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/i474232898/weather-companion/internal/app"
	"github.com/i474232898/weather-companion/internal/store"
	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/update"
	"github.com/i474232898/weather-companion/internal/weather"
)

type fakeController struct {
	view     app.View
	queries  []string
	selected []weather.LocationPoint
	refresh  int
	units    []units.Units
	err      error
}

func (f *fakeController) View() app.View { return f.view }

func (f *fakeController) SearchLocations(q string) error {
	if strings.TrimSpace(q) == "" {
		return app.ErrEmptyQuery
	}
	f.queries = append(f.queries, q)
	return f.err
}

func (f *fakeController) SelectLocation(p weather.LocationPoint) error {
	f.selected = append(f.selected, p)
	return f.err
}

func (f *fakeController) Refresh() error {
	f.refresh++
	return f.err
}

func (f *fakeController) SetUnits(u units.Units) error {
	f.units = append(f.units, u)
	return f.err
}

func newTestApp(ctl Controller, history History) *fiber.App {
	a := NewApp("weather-test")
	RegisterRoutes(a, ctl, history)
	return a
}

func post(t *testing.T, a *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.Test(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, a *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := a.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	resp := get(t, newTestApp(&fakeController{}, nil), "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStateReturnsView(t *testing.T) {
	ctl := &fakeController{view: app.View{
		Event:    "LocationResultsReceived",
		Search:   app.MultipleMatches,
		Results:  []weather.LocationPoint{{Label: "Springfield, IL, USA"}, {Label: "Springfield, MO, USA"}},
		Units:    units.Metric,
		Location: "",
	}}

	resp := get(t, newTestApp(ctl, nil), "/api/v1/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "multiple-matches", body["search"])
	require.Len(t, body["results"], 2)
}

func TestWeatherEndpoint(t *testing.T) {
	ctl := &fakeController{}
	a := newTestApp(ctl, nil)

	resp := get(t, a, "/api/v1/weather")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	ctl.view.Weather = &weather.Snapshot{
		Timezone: "Europe/Amsterdam",
		Current:  weather.Conditions{Timestamp: 1700000000, Temp: 8.25},
		Units:    units.Metric,
	}

	resp = get(t, a, "/api/v1/weather")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap weather.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, 8.25, snap.Current.Temp)

	resp = get(t, a, "/api/v1/weather?format=msgpack")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/x-msgpack", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(raw, &decoded))
	require.Equal(t, "Europe/Amsterdam", decoded["timezone"])
	require.Contains(t, decoded, "current")
}

func TestSearchEndpoint(t *testing.T) {
	ctl := &fakeController{}
	a := newTestApp(ctl, nil)

	resp := post(t, a, "/api/v1/location/search", `{"query": "Springfield"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, []string{"Springfield"}, ctl.queries)

	for _, body := range []string{`{}`, `{"query": ""}`, `{"query": "   "}`, `not json`} {
		resp = post(t, a, "/api/v1/location/search", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	require.Len(t, ctl.queries, 1)
}

func TestSelectEndpointValidatesCoordinates(t *testing.T) {
	ctl := &fakeController{}
	a := newTestApp(ctl, nil)

	resp := post(t, a, "/api/v1/location/select", `{"label": "Null Island", "lat": 0, "lon": 0}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, []weather.LocationPoint{{Label: "Null Island"}}, ctl.selected)

	for _, body := range []string{
		`{"label": "x", "lat": 91, "lon": 0}`,
		`{"label": "x", "lat": 0, "lon": -181}`,
		`{"label": "x", "lat": 10}`,
		`{"lat": 10, "lon": 10}`,
	} {
		resp = post(t, a, "/api/v1/location/select", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	require.Len(t, ctl.selected, 1)
}

func TestUnitsEndpoint(t *testing.T) {
	ctl := &fakeController{}
	a := newTestApp(ctl, nil)

	resp := post(t, a, "/api/v1/units", `{"units": "imperial"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, []units.Units{units.Imperial}, ctl.units)

	resp = post(t, a, "/api/v1/units", `{"units": "kelvin"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshAfterShutdown(t *testing.T) {
	ctl := &fakeController{err: update.ErrClosed}
	a := newTestApp(ctl, nil)

	resp := post(t, a, "/api/v1/refresh", ``)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, 1, ctl.refresh)
}

func TestPreferencesHistory(t *testing.T) {
	history := store.NewMemoryStore(10, nil)
	a := newTestApp(&fakeController{}, history)

	resp := get(t, a, "/api/v1/preferences/history")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, history.Save(weather.Preferences{Location: "Ruinerwold", Units: units.Metric}))
	resp = get(t, a, "/api/v1/preferences/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count   int           `json:"count"`
		History []store.Saved `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, "Ruinerwold", body.History[0].Preferences.Location)
}
