package app

import (
	"errors"
	"strings"

	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/update"
	"github.com/i474232898/weather-companion/internal/weather"
)

// ErrEmptyQuery is returned when a search is requested without any text.
var ErrEmptyQuery = errors.New("empty location query")

// Handle is how the presentation and the host talk to the Core. It only
// sends events and never touches the state directly.
type Handle struct {
	tx   *update.Sender
	view func() View
}

// SearchLocations starts a location lookup for query.
func (h *Handle) SearchLocations(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}
	return h.tx.Send(update.LocationSearchRequested{Query: query})
}

// SelectLocation fetches the weather for one of the search results.
func (h *Handle) SelectLocation(p weather.LocationPoint) error {
	return h.tx.Send(update.LocationSelected{Point: p})
}

// Refresh re-fetches the weather for the saved location.
func (h *Handle) Refresh() error {
	return h.tx.Send(update.RefreshRequested{})
}

// SetUnits switches the measurement system.
func (h *Handle) SetUnits(u units.Units) error {
	if !u.Valid() {
		return errors.New("unknown unit system " + string(u))
	}
	return h.tx.Send(update.UnitsChangeRequested{Units: u})
}

// ToggleUnits switches to the other measurement system.
func (h *Handle) ToggleUnits() error {
	return h.SetUnits(h.View().Units.Toggle())
}

// EditLocation replaces the location label with an empty search entry.
func (h *Handle) EditLocation() error {
	return h.tx.Send(update.LocationConfirmed{})
}

// CancelSearch returns to the saved location, or to the empty search entry
// when nothing has been saved yet.
func (h *Handle) CancelSearch() error {
	var label string
	if p := h.View().Preferences; p != nil {
		label = p.Location
	}
	return h.tx.Send(update.LocationConfirmed{Label: label})
}

// View returns the latest published view.
func (h *Handle) View() View {
	return h.view()
}

// Close releases the Handle's sender. The consumer loop stops once every
// in-flight task has reported back.
func (h *Handle) Close() {
	h.tx.Close()
}
