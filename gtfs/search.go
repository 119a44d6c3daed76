package gtfs

import (
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/nextbus/internal/fuzzy"
)

// DefaultMinScore is the fuzzy score a stop name must beat to be returned.
const DefaultMinScore = 50

// SearchStops finds stops for a free-text query using DefaultMinScore.
func (s *Store) SearchStops(query string, limit int) []Stop {
	return s.SearchStopsAbove(query, limit, DefaultMinScore)
}

// SearchStopsAbove returns at most limit stops for query. Stops whose id or
// code contains the query (or is contained by it) win outright, shortest id
// first. Otherwise stop names are ranked by fuzzy score, keeping only those
// scoring above minScore.
func (s *Store) SearchStopsAbove(query string, limit int, minScore float64) []Stop {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	var hits []Stop
	for _, id := range s.stopOrder {
		st := s.stops[id]
		if overlaps(q, strings.ToLower(st.ID)) || overlaps(q, strings.ToLower(st.Code)) {
			hits = append(hits, st)
		}
	}
	if len(hits) > 0 {
		sort.SliceStable(hits, func(i, j int) bool { return len(hits[i].ID) < len(hits[j].ID) })
		if len(hits) > limit {
			hits = hits[:limit]
		}
		return hits
	}

	names := make([]string, len(s.stopOrder))
	for i, id := range s.stopOrder {
		names[i] = s.stops[id].Name
	}
	matches := fuzzy.Extract(query, names, limit, minScore)
	out := make([]Stop, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.stops[s.stopOrder[m.Index]])
	}
	return out
}

func overlaps(q, field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(field, q) || strings.Contains(q, field)
}

// ResolveStop maps what a rider typed to a single stop: an exact id (any
// case), then an exact stop code, then the best search hit.
func (s *Store) ResolveStop(query string) (Stop, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Stop{}, false
	}
	if st, ok := s.stops[q]; ok {
		return st, true
	}
	if st, ok := s.stops[strings.ToUpper(q)]; ok {
		return st, true
	}
	for _, id := range s.stopOrder {
		if strings.EqualFold(s.stops[id].Code, q) {
			return s.stops[id], true
		}
	}
	if hits := s.SearchStops(q, 1); len(hits) > 0 {
		return hits[0], true
	}
	return Stop{}, false
}
