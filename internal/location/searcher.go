// Package location resolves free-text queries into candidate forecast points.
package location

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/i474232898/weather-companion/internal/weather"
)

// ErrMalformedResponse marks a geocoder payload that could not be decoded.
var ErrMalformedResponse = weather.ErrMalformedResponse

// Searcher abstracts a geocoding backend. Implementations return every
// candidate they know of, or only the exact match when the backend flags one.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]weather.LocationPoint, error)
}

// Rank orders candidates by edit distance between their label and the query,
// keeping the backend's order for ties. The input slice is not modified.
func Rank(query string, candidates []weather.LocationPoint) []weather.LocationPoint {
	q := strings.ToLower(strings.TrimSpace(query))

	dist := make([]int, len(candidates))
	idx := make([]int, len(candidates))
	for i, c := range candidates {
		dist[i] = levenshtein.ComputeDistance(q, labelHead(c.Label))
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dist[idx[a]] < dist[idx[b]]
	})

	out := make([]weather.LocationPoint, len(candidates))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}

// labelHead returns the locality part of a label such as
// "Springfield, IL, USA", which is what a user types.
func labelHead(label string) string {
	head, _, _ := strings.Cut(label, ",")
	return strings.ToLower(strings.TrimSpace(head))
}
