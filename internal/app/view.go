package app

import (
	"go.uber.org/zap"

	"github.com/i474232898/weather-companion/internal/units"
	"github.com/i474232898/weather-companion/internal/weather"
)

// View is an immutable copy of State taken after an event was applied.
// Snapshots are shared, never copied, since they are not mutated.
type View struct {
	Event           string                  `json:"event"`
	Location        string                  `json:"location"`
	LocationVisible bool                    `json:"locationVisible"`
	SearchVisible   bool                    `json:"searchVisible"`
	ResultsVisible  bool                    `json:"resultsVisible"`
	Search          SearchPhase             `json:"search"`
	Query           string                  `json:"query,omitempty"`
	Results         []weather.LocationPoint `json:"results,omitempty"`
	Weather         *weather.Snapshot       `json:"weather,omitempty"`
	Preferences     *weather.Preferences    `json:"preferences,omitempty"`
	Units           units.Units             `json:"units"`
	Status          string                  `json:"status,omitempty"`
}

// Sink receives a View after every applied event. Render is called from the
// consumer loop and should return quickly.
type Sink interface {
	Render(v View)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(View)

func (f SinkFunc) Render(v View) { f(v) }

// LogSink writes a summary of every View to a logger. It is used when the
// host runs without a terminal.
type LogSink struct {
	logger *zap.SugaredLogger
}

func NewLogSink(logger *zap.SugaredLogger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Render(v View) {
	kv := []interface{}{
		"event", v.Event,
		"location", v.Location,
		"search", v.Search.String(),
		"units", v.Units,
	}
	if v.Weather != nil {
		kv = append(kv, "temp", v.Weather.Units.Format(v.Weather.Current.Temp, units.Temperature))
	}
	if len(v.Results) > 0 {
		kv = append(kv, "results", len(v.Results))
	}
	if v.Status != "" {
		kv = append(kv, "status", v.Status)
	}
	s.logger.Infow("view updated", kv...)
}
