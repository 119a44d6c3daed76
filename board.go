package nextbus

import (
	"context"
	"log/slog"

	"github.com/theoremus-urban-solutions/nextbus/gtfs"
	"github.com/theoremus-urban-solutions/nextbus/gtfsrt"
	"github.com/theoremus-urban-solutions/nextbus/utils"
)

// BoardStatus tells an empty board apart from a board without live data.
type BoardStatus string

const (
	StatusLive        BoardStatus = "live"
	StatusNoArrivals  BoardStatus = "no_arrivals"
	StatusUnavailable BoardStatus = "unavailable"
)

// Board is the live view of one stop.
type Board struct {
	Stop      gtfs.Stop        `json:"stop"`
	Status    BoardStatus      `json:"status"`
	Arrivals  []gtfsrt.Arrival `json:"arrivals"`
	Lines     []string         `json:"lines"`
	Message   string           `json:"message,omitempty"`
	UpdatedAt string           `json:"updated_at"`
}

const (
	noArrivalsMessage  = "No upcoming arrivals in the next two hours."
	unavailableMessage = "Live arrival data is unavailable right now."
)

// LiveBoard fetches live arrivals for a stop and renders them. The second
// result is false when the stop does not exist. A feed failure does not fail
// the board; it sets StatusUnavailable.
func (s *Service) LiveBoard(ctx context.Context, stopID, routeID string) (Board, bool) {
	stop, ok := s.GetStop(stopID)
	if !ok {
		return Board{}, false
	}
	b := Board{
		Stop:      stop,
		Arrivals:  []gtfsrt.Arrival{},
		Lines:     []string{},
		UpdatedAt: utils.Iso8601FromUnixSeconds(s.now().Unix()),
	}

	arrivals, err := s.ArrivalsForStop(ctx, stopID, routeID)
	if err != nil {
		s.logger.Warn("live board degraded",
			slog.String("stop_id", stopID),
			slog.String("error", err.Error()))
		b.Status = StatusUnavailable
		b.Message = unavailableMessage
		return b, true
	}
	if len(arrivals) == 0 {
		b.Status = StatusNoArrivals
		b.Message = noArrivalsMessage
		return b, true
	}

	b.Status = StatusLive
	b.Arrivals = arrivals
	for _, a := range arrivals {
		b.Lines = append(b.Lines, s.FormatArrival(a))
	}
	return b, true
}
