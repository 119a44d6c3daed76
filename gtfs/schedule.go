package gtfs

import (
	"time"

	"github.com/theoremus-urban-solutions/nextbus/utils"
)

// ScheduleQuery selects visits at one stop.
type ScheduleQuery struct {
	StopID      string
	Day         time.Weekday
	Date        time.Time // checked against the service validity range; zero means today
	FromSeconds int       // seconds past midnight; earlier visits are skipped
	Window      int       // seconds after FromSeconds to include; 0 means no limit
	RouteID     string    // optional
}

// ScheduledArrivals returns the visits at q.StopID from q.FromSeconds onward
// whose service runs on q.Day and q.Date, in time order.
func (s *Store) ScheduledArrivals(q ScheduleQuery) []ScheduleEntry {
	visits := s.visits[q.StopID]
	if len(visits) == 0 {
		return nil
	}
	date := q.Date
	if date.IsZero() {
		date = time.Now()
	}
	limit := q.FromSeconds + q.Window

	var out []ScheduleEntry
	for _, v := range visits {
		if v.Seconds < q.FromSeconds {
			continue
		}
		if q.Window > 0 && v.Seconds > limit {
			break
		}
		trip, ok := s.trips[v.TripID]
		if !ok {
			continue
		}
		if q.RouteID != "" && trip.RouteID != q.RouteID {
			continue
		}
		if !s.RunsOn(trip.ServiceID, q.Day, date) {
			continue
		}
		out = append(out, ScheduleEntry{
			Seconds:  v.Seconds,
			TripID:   v.TripID,
			RouteID:  trip.RouteID,
			Headsign: trip.Headsign,
		})
	}
	return out
}

// ScheduleFrom is the FromSeconds a rider-facing query uses at now, reaching
// back grace so buses that left moments ago still show.
func ScheduleFrom(now time.Time, grace time.Duration) int {
	return max(0, utils.SecondsOfDay(now)-int(grace/time.Second))
}
