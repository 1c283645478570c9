package app

import (
	"fmt"
	"strings"

	"github.com/i474232898/weather-companion/internal/update"
	"github.com/i474232898/weather-companion/internal/weather"
)

// stateHandler applies one event to the locked state. Work that must not
// run under the lock, such as spawning tasks or enqueueing follow-up events,
// is collected in after and run by the loop once the lock is released.
type stateHandler struct {
	core  *Core
	state *State
	after []func()
}

var _ update.Handler = (*stateHandler)(nil)

func (h *stateHandler) later(f func()) {
	h.after = append(h.after, f)
}

func (h *stateHandler) WeatherReceived(e update.WeatherReceived) {
	s := h.state
	s.Weather = e.Snapshot

	switch {
	case e.Diagnostic != "":
		// No LocationConfirmed follows, so bring the location controls back.
		s.Status = "Weather unavailable: " + e.Diagnostic
		if s.Preferences != nil {
			s.showLocation(s.Preferences.Location)
		} else {
			s.showSearch()
		}
	case e.Snapshot == nil:
		s.Status = "No weather data"
	default:
		s.Status = ""
	}
}

func (h *stateHandler) LocationConfirmed(e update.LocationConfirmed) {
	s := h.state
	s.Search = Idle
	s.Results = nil

	if e.Label == "" {
		s.showSearch()
		return
	}
	s.showLocation(e.Label)
}

func (h *stateHandler) LocationSearchRequested(e update.LocationSearchRequested) {
	s := h.state
	query := strings.TrimSpace(e.Query)
	if query == "" {
		h.core.logger.Debugw("ignoring empty location query")
		s.Status = "Enter a location to search for"
		return
	}

	s.Search = Searching
	s.Query = query
	s.Results = nil
	s.hideLocationControls()
	s.Status = fmt.Sprintf("Searching for %s...", query)

	h.later(func() { h.core.searchLocations(query) })
}

func (h *stateHandler) LocationResultsReceived(e update.LocationResultsReceived) {
	s := h.state
	s.Results = nil

	switch {
	case !e.OK:
		s.Search = Idle
		s.showSearch()
		s.Status = "Try another location"
		if e.Diagnostic != "" {
			s.Status = fmt.Sprintf("Search failed (%s). Try another location", e.Diagnostic)
		}

	case len(e.Results) == 0:
		s.Search = NoMatch
		s.Status = fmt.Sprintf("No match for %q", e.Query)
		if s.Preferences != nil {
			s.showLocation(s.Preferences.Location)
		} else {
			s.showSearch()
		}

	case len(e.Results) == 1:
		s.Search = SingleMatch
		s.Results = e.Results
		point := e.Results[0]
		h.later(func() {
			h.core.send("auto-select", update.LocationSelected{Point: point, Auto: true})
		})

	default:
		s.Search = MultipleMatches
		s.Results = e.Results
		s.ResultsVisible = true
		s.Status = fmt.Sprintf("%d places match %q", len(e.Results), e.Query)
	}
}

func (h *stateHandler) PreferencesShouldPersist(e update.PreferencesShouldPersist) {
	s := h.state
	p := e.Preferences
	s.Preferences = &p
	s.Units = p.Units

	if h.core.store == nil {
		return
	}
	if err := h.core.store.Save(p); err != nil {
		h.core.logger.Errorw("failed to persist preferences", "location", p.Location, "error", err)
		s.Status = "Could not save preferences"
	}
}

func (h *stateHandler) LocationSelected(e update.LocationSelected) {
	s := h.state
	s.Search = Idle
	s.Results = nil
	s.ResultsVisible = false
	s.Status = "Loading weather for " + displayLabel(e.Point) + "..."

	point, u := e.Point, s.Units
	h.later(func() { h.core.requestWeather(point, u) })
}

func (h *stateHandler) RefreshRequested(update.RefreshRequested) {
	s := h.state
	if s.Preferences == nil {
		s.Status = "No location to refresh"
		return
	}

	point, u := s.Preferences.Point(), s.Units
	h.later(func() { h.core.requestWeather(point, u) })
}

func (h *stateHandler) UnitsChangeRequested(e update.UnitsChangeRequested) {
	s := h.state
	if !e.Units.Valid() {
		h.core.logger.Warnw("ignoring unknown unit system", "units", e.Units)
		return
	}

	s.Units = e.Units
	if s.Preferences == nil {
		return
	}
	p := *s.Preferences
	p.Units = e.Units
	s.Preferences = &p

	point := p.Point()
	h.later(func() { h.core.requestWeather(point, e.Units) })
}

func displayLabel(p weather.LocationPoint) string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("%.4f, %.4f", p.Latitude, p.Longitude)
}
