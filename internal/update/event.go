// Package update defines the closed set of events that drive the application
// state and the ordered queue that carries them to the consumer loop.
package update

import (
	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/weather"
)

// Handler has one method per event variant. Adding a variant means adding a
// method here, so every consumer fails to compile until it handles it.
type Handler interface {
	WeatherReceived(WeatherReceived)
	LocationConfirmed(LocationConfirmed)
	LocationSearchRequested(LocationSearchRequested)
	LocationResultsReceived(LocationResultsReceived)
	PreferencesShouldPersist(PreferencesShouldPersist)
	LocationSelected(LocationSelected)
	RefreshRequested(RefreshRequested)
	UnitsChangeRequested(UnitsChangeRequested)
}

// Event is one of the variants declared in this package.
type Event interface {
	Kind() string
	Dispatch(h Handler)
	sealed()
}

// WeatherReceived carries the result of a fetch. A nil Snapshot means the
// provider produced no data; Diagnostic is set when the payload was malformed.
type WeatherReceived struct {
	Snapshot   *weather.Snapshot
	Diagnostic string
}

// LocationConfirmed sets the displayed location. An empty Label returns to the
// no-location state with the search entry shown.
type LocationConfirmed struct {
	Label string
}

// LocationSearchRequested starts a geocoder lookup for Query.
type LocationSearchRequested struct {
	Query string
}

// LocationResultsReceived carries geocoder candidates. OK is false when the
// lookup failed; an OK result may hold zero candidates.
type LocationResultsReceived struct {
	Query      string
	Results    []weather.LocationPoint
	OK         bool
	Diagnostic string
}

// PreferencesShouldPersist replaces the stored preferences.
type PreferencesShouldPersist struct {
	Preferences weather.Preferences
}

// LocationSelected enters the weather fetch for Point. Auto is set when the
// selection was made on the user's behalf because a search had one result.
type LocationSelected struct {
	Point weather.LocationPoint
	Auto  bool
}

// RefreshRequested re-fetches the weather for the confirmed location.
type RefreshRequested struct{}

// UnitsChangeRequested switches the measurement system and re-fetches.
type UnitsChangeRequested struct {
	Units units.Units
}

func (WeatherReceived) Kind() string          { return "WeatherReceived" }
func (LocationConfirmed) Kind() string        { return "LocationConfirmed" }
func (LocationSearchRequested) Kind() string  { return "LocationSearchRequested" }
func (LocationResultsReceived) Kind() string  { return "LocationResultsReceived" }
func (PreferencesShouldPersist) Kind() string { return "PreferencesShouldPersist" }
func (LocationSelected) Kind() string         { return "LocationSelected" }
func (RefreshRequested) Kind() string         { return "RefreshRequested" }
func (UnitsChangeRequested) Kind() string     { return "UnitsChangeRequested" }

func (e WeatherReceived) Dispatch(h Handler)          { h.WeatherReceived(e) }
func (e LocationConfirmed) Dispatch(h Handler)        { h.LocationConfirmed(e) }
func (e LocationSearchRequested) Dispatch(h Handler)  { h.LocationSearchRequested(e) }
func (e LocationResultsReceived) Dispatch(h Handler)  { h.LocationResultsReceived(e) }
func (e PreferencesShouldPersist) Dispatch(h Handler) { h.PreferencesShouldPersist(e) }
func (e LocationSelected) Dispatch(h Handler)         { h.LocationSelected(e) }
func (e RefreshRequested) Dispatch(h Handler)         { h.RefreshRequested(e) }
func (e UnitsChangeRequested) Dispatch(h Handler)     { h.UnitsChangeRequested(e) }

func (WeatherReceived) sealed()          {}
func (LocationConfirmed) sealed()        {}
func (LocationSearchRequested) sealed()  {}
func (LocationResultsReceived) sealed()  {}
func (PreferencesShouldPersist) sealed() {}
func (LocationSelected) sealed()         {}
func (RefreshRequested) sealed()         {}
func (UnitsChangeRequested) sealed()     {}
