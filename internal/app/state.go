package app

import (
	"fmt"

	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/weather"
)

// SearchPhase is the position of the location search state machine.
type SearchPhase int

const (
	Idle SearchPhase = iota
	Searching
	NoMatch
	SingleMatch
	MultipleMatches
)

var phaseNames = map[SearchPhase]string{
	Idle:            "idle",
	Searching:       "searching",
	NoMatch:         "no-match",
	SingleMatch:     "single-match",
	MultipleMatches: "multiple-matches",
}

func (p SearchPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SearchPhase(%d)", int(p))
}

func (p SearchPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is everything the presentation shows. It is only touched through
// Shared.WithLockedState.
type State struct {
	Preferences *weather.Preferences
	Weather     *weather.Snapshot
	Units       units.Units

	Label           string
	LocationVisible bool
	SearchVisible   bool
	ResultsVisible  bool

	Search  SearchPhase
	Query   string
	Results []weather.LocationPoint

	Status    string
	LastEvent string
}

func newState(prefs *weather.Preferences, u units.Units) State {
	s := State{Units: u, Search: Idle}
	if prefs != nil {
		p := *prefs
		s.Preferences = &p
		s.Units = p.Units
		s.Label = p.Location
		s.LocationVisible = true
	}
	return s
}

// showLocation displays label in place of the search entry.
func (s *State) showLocation(label string) {
	s.Label = label
	s.LocationVisible = true
	s.SearchVisible = false
	s.ResultsVisible = false
}

// showSearch swaps the location label for an empty search entry.
func (s *State) showSearch() {
	s.Label = ""
	s.Query = ""
	s.LocationVisible = false
	s.SearchVisible = true
	s.ResultsVisible = false
}

// hideLocationControls hides every location affordance while a lookup runs.
func (s *State) hideLocationControls() {
	s.LocationVisible = false
	s.SearchVisible = false
	s.ResultsVisible = false
}

func (s *State) view() View {
	v := View{
		Event:           s.LastEvent,
		Location:        s.Label,
		LocationVisible: s.LocationVisible,
		SearchVisible:   s.SearchVisible,
		ResultsVisible:  s.ResultsVisible,
		Search:          s.Search,
		Query:           s.Query,
		Weather:         s.Weather,
		Units:           s.Units,
		Status:          s.Status,
	}
	if len(s.Results) > 0 {
		v.Results = append([]weather.LocationPoint(nil), s.Results...)
	}
	if s.Preferences != nil {
		p := *s.Preferences
		v.Preferences = &p
	}
	return v
}
