package gtfsrt

import (
	"sort"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/theoremus-urban-solutions/nextbus/utils"
)

// DefaultHorizonMinutes bounds how far ahead a prediction is still shown.
const DefaultHorizonMinutes = 120

// Arrival is one live prediction at a stop.
type Arrival struct {
	RouteID      string    `json:"route_id"`
	TripID       string    `json:"trip_id"`
	StopID       string    `json:"stop_id"`
	PredictedAt  time.Time `json:"predicted_at"`
	DelaySeconds int       `json:"delay_seconds"`
	MinutesUntil int       `json:"minutes_until"`
	Headsign     string    `json:"headsign,omitempty"`
}

// TripResolver supplies static trip details missing from the feed.
type TripResolver interface {
	TripRouteID(tripID string) string
	TripHeadsign(tripID string) string
}

// Options tunes ArrivalsFromFeed.
type Options struct {
	Horizon int // minutes; 0 means DefaultHorizonMinutes
	Trips   TripResolver
}

// ArrivalsFromFeed extracts the predictions for stopID from fm, keeps those
// between 0 and the horizon minutes away from now, and sorts them soonest
// first. routeID, when non-empty, filters by route. Updates without a usable
// time and deleted entities are ignored.
//
// CANCELED trips and SKIPPED stop updates are dropped rather than passed
// through, so a cancelled bus never shows up as an arrival.
func ArrivalsFromFeed(fm *gtfsrtpb.FeedMessage, stopID, routeID string, now time.Time, opts Options) []Arrival {
	if fm == nil {
		return nil
	}
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizonMinutes
	}
	nowUnix := now.Unix()

	var out []Arrival
	for _, e := range fm.Entity {
		if e.IsDeleted != nil && *e.IsDeleted {
			continue
		}
		tu := e.TripUpdate
		if tu == nil {
			continue
		}
		var tripID, tripRoute string
		if td := tu.Trip; td != nil {
			if td.ScheduleRelationship != nil && *td.ScheduleRelationship == gtfsrtpb.TripDescriptor_CANCELED {
				continue
			}
			if td.TripId != nil {
				tripID = *td.TripId
			}
			if td.RouteId != nil {
				tripRoute = *td.RouteId
			}
		}
		if tripRoute == "" && tripID != "" && opts.Trips != nil {
			tripRoute = opts.Trips.TripRouteID(tripID)
		}
		if routeID != "" && tripRoute != routeID {
			continue
		}

		for _, stu := range tu.StopTimeUpdate {
			if stu.StopId == nil || *stu.StopId != stopID {
				continue
			}
			if stu.ScheduleRelationship != nil && *stu.ScheduleRelationship == gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED {
				continue
			}
			at, delay, ok := predictedTime(stu)
			if !ok {
				continue
			}
			minutes := utils.FloorDiv(at-nowUnix, 60)
			if minutes < 0 || minutes > int64(horizon) {
				continue
			}
			a := Arrival{
				RouteID:      tripRoute,
				TripID:       tripID,
				StopID:       stopID,
				PredictedAt:  time.Unix(at, 0),
				DelaySeconds: delay,
				MinutesUntil: int(minutes),
			}
			if tripID != "" && opts.Trips != nil {
				a.Headsign = opts.Trips.TripHeadsign(tripID)
			}
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MinutesUntil != out[j].MinutesUntil {
			return out[i].MinutesUntil < out[j].MinutesUntil
		}
		return out[i].PredictedAt.Before(out[j].PredictedAt)
	})
	return out
}

// predictedTime prefers the arrival time and falls back to the departure
// time. The delay comes from the event that supplied the time, else from the
// other event, else zero.
func predictedTime(stu *gtfsrtpb.TripUpdate_StopTimeUpdate) (at int64, delay int, ok bool) {
	arr, dep := stu.Arrival, stu.Departure
	var used, other *gtfsrtpb.TripUpdate_StopTimeEvent
	switch {
	case arr != nil && arr.Time != nil:
		used, other = arr, dep
	case dep != nil && dep.Time != nil:
		used, other = dep, arr
	default:
		return 0, 0, false
	}
	at = *used.Time
	switch {
	case used.Delay != nil:
		delay = int(*used.Delay)
	case other != nil && other.Delay != nil:
		delay = int(*other.Delay)
	}
	return at, delay, true
}
