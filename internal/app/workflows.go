package app

import (
	"context"
	"errors"

	"github.com/i474232898/weather-companion/internal/location"
	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/update"
	"github.com/i474232898/weather-companion/internal/weather"
)

// requestWeather fetches the forecast for point and reports the result as
// three events, sent in order: the data, the confirmed location and the
// preferences to persist. A failed fetch still sends all three, carrying a
// nil snapshot. A malformed response ends the cascade after the data event.
func (c *Core) requestWeather(point weather.LocationPoint, u units.Units) {
	c.spawn("weather", func(tx *update.Sender) {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		snapshot, err := c.fetcher.Fetch(ctx, weather.RequestFor(point, u))
		switch {
		case errors.Is(err, weather.ErrMalformedResponse):
			c.logger.Errorw("weather response rejected",
				"provider", c.fetcher.Name(), "location", point.Label, "error", err)
			c.sendAll(tx, update.WeatherReceived{Diagnostic: err.Error()})
			return
		case err != nil:
			c.logger.Warnw("weather fetch failed",
				"provider", c.fetcher.Name(), "location", point.Label, "error", err)
			snapshot = nil
		}

		c.sendAll(tx,
			update.WeatherReceived{Snapshot: snapshot},
			update.LocationConfirmed{Label: displayLabel(point)},
			update.PreferencesShouldPersist{Preferences: weather.NewPreferences(point, u)},
		)
	})
}

// searchLocations resolves query and reports exactly one
// LocationResultsReceived. Candidates are ranked by closeness to the query.
func (c *Core) searchLocations(query string) {
	c.spawn("search", func(tx *update.Sender) {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		result := update.LocationResultsReceived{Query: query}
		points, err := c.searcher.Search(ctx, query)
		switch {
		case errors.Is(err, location.ErrMalformedResponse):
			c.logger.Errorw("geocoder response rejected",
				"searcher", c.searcher.Name(), "query", query, "error", err)
			result.Diagnostic = err.Error()
		case err != nil:
			c.logger.Warnw("location search failed",
				"searcher", c.searcher.Name(), "query", query, "error", err)
		default:
			result.OK = true
			result.Results = location.Rank(query, points)
		}

		c.sendAll(tx, result)
	})
}
