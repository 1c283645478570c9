// Package store persists the user's preferences between runs.
package store

import (
	"errors"

	"github.com/i474232898/weather-companion/internal/weather"
)

var (
	// ErrNotFound is returned when no preferences have been saved yet.
	ErrNotFound = errors.New("no saved preferences")
)

// Store loads and saves preferences. Load returns nil, nil when nothing has
// been saved.
type Store interface {
	Load() (*weather.Preferences, error)
	Save(p weather.Preferences) error
}
