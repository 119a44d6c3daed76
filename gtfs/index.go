package gtfs

import "sort"

// Store holds a loaded schedule. It is never modified after Load returns and
// is safe for concurrent use.
type Store struct {
	stops       map[string]Stop
	stopOrder   []string // stop ids in file order
	routes      map[string]Route
	calendar    map[string]ServiceCalendar
	hasCalendar bool
	trips       map[string]Trip
	visits      map[string][]StopVisit // stop_id -> visits sorted by time

	routesByStop map[string][]string // stop_id -> sorted route_ids
	stopsByRoute map[string][]string // route_id -> sorted stop_ids

	orphans int
	untimed int
}

func newStore() *Store {
	return &Store{
		stops:        map[string]Stop{},
		routes:       map[string]Route{},
		calendar:     map[string]ServiceCalendar{},
		trips:        map[string]Trip{},
		visits:       map[string][]StopVisit{},
		routesByStop: map[string][]string{},
		stopsByRoute: map[string][]string{},
	}
}

// buildIndices derives both reverse indices from the same trip/visit join.
func (s *Store) buildIndices() {
	stopRoutes := map[string]map[string]struct{}{}
	routeStops := map[string]map[string]struct{}{}
	for stopID, visits := range s.visits {
		for _, v := range visits {
			routeID := s.trips[v.TripID].RouteID
			if stopRoutes[stopID] == nil {
				stopRoutes[stopID] = map[string]struct{}{}
			}
			stopRoutes[stopID][routeID] = struct{}{}
			if routeStops[routeID] == nil {
				routeStops[routeID] = map[string]struct{}{}
			}
			routeStops[routeID][stopID] = struct{}{}
		}
	}
	for id, set := range stopRoutes {
		s.routesByStop[id] = sortedKeys(set)
	}
	for id, set := range routeStops {
		s.stopsByRoute[id] = sortedKeys(set)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// GetStop looks up a stop by id.
func (s *Store) GetStop(id string) (Stop, bool) {
	st, ok := s.stops[id]
	return st, ok
}

// GetRoute looks up a route by id.
func (s *Store) GetRoute(id string) (Route, bool) {
	r, ok := s.routes[id]
	return r, ok
}

// GetTrip looks up a trip by id.
func (s *Store) GetTrip(id string) (Trip, bool) {
	t, ok := s.trips[id]
	return t, ok
}

// Service returns the calendar entry for a service id.
func (s *Store) Service(id string) (ServiceCalendar, bool) {
	c, ok := s.calendar[id]
	return c, ok
}

// TripHeadsign returns the destination label of a trip, or "" when unknown.
func (s *Store) TripHeadsign(tripID string) string { return s.trips[tripID].Headsign }

// TripRouteID returns the route a trip belongs to, or "" when unknown.
func (s *Store) TripRouteID(tripID string) string { return s.trips[tripID].RouteID }

// RoutesForStop returns the routes serving a stop, ordered by route id.
// Route ids referenced by trips but missing from routes.txt are omitted.
func (s *Store) RoutesForStop(stopID string) []Route {
	ids := s.routesByStop[stopID]
	out := make([]Route, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.routes[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// StopsForRoute returns the stops a route calls at, ordered by stop id.
func (s *Store) StopsForRoute(routeID string) []Stop {
	ids := s.stopsByRoute[routeID]
	out := make([]Stop, 0, len(ids))
	for _, id := range ids {
		if st, ok := s.stops[id]; ok {
			out = append(out, st)
		}
	}
	return out
}

// Visits returns the time-sorted visits at a stop. The slice is shared and
// must not be modified.
func (s *Store) Visits(stopID string) []StopVisit { return s.visits[stopID] }

// Stops returns every stop in file order.
func (s *Store) Stops() []Stop {
	out := make([]Stop, 0, len(s.stopOrder))
	for _, id := range s.stopOrder {
		out = append(out, s.stops[id])
	}
	return out
}

// Stats reports table sizes and the rows dropped while loading.
func (s *Store) Stats() Stats {
	n := 0
	for _, v := range s.visits {
		n += len(v)
	}
	return Stats{
		Stops:     len(s.stops),
		Routes:    len(s.routes),
		Trips:     len(s.trips),
		Services:  len(s.calendar),
		Visits:    n,
		Orphans:   s.orphans,
		Untimed:   s.untimed,
		Calendars: s.hasCalendar,
	}
}
