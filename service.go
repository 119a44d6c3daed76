package nextbus

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/theoremus-urban-solutions/nextbus/config"
	"github.com/theoremus-urban-solutions/nextbus/formatter"
	"github.com/theoremus-urban-solutions/nextbus/gtfs"
	"github.com/theoremus-urban-solutions/nextbus/gtfsrt"
	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
	"github.com/theoremus-urban-solutions/nextbus/utils"
)

// Options tunes a Service. Zero values take the config package defaults.
type Options struct {
	SearchLimit int
	MinScore    float64
	Grace       time.Duration
	Logger      *slog.Logger
}

// OptionsFrom maps the application config onto Options.
func OptionsFrom(cfg *config.AppConfig, logger *slog.Logger) Options {
	return Options{
		SearchLimit: cfg.Search.Limit,
		MinScore:    cfg.Search.MinScore,
		Grace:       time.Duration(cfg.Schedule.GraceMinutes) * time.Minute,
		Logger:      logger,
	}
}

// FeedConfigFrom maps the gtfsrt config section onto a feed client config.
func FeedConfigFrom(cfg config.GTFSRTConfig) gtfsrt.ClientConfig {
	return gtfsrt.ClientConfig{
		URL:        cfg.TripUpdatesURL,
		Timeout:    time.Duration(cfg.TimeoutMS) * time.Millisecond,
		MaxFeedAge: time.Duration(cfg.MaxFeedAgeSec) * time.Second,
		Horizon:    cfg.HorizonMinutes,
	}
}

// Service is the outward face of the schedule store and the live feed.
// It is safe for concurrent use.
type Service struct {
	schedule    *gtfs.Holder
	feed        *gtfsrt.Client
	logger      *slog.Logger
	searchLimit int
	minScore    float64
	grace       time.Duration
	now         func() time.Time
}

// NewService wires a schedule and a feed client together. When the client has
// no trip resolver, the current schedule is installed as one.
func NewService(schedule *gtfs.Holder, feed *gtfsrt.Client, opts Options) *Service {
	s := &Service{
		schedule:    schedule,
		feed:        feed,
		logger:      logging.OrDefault(opts.Logger).With(slog.String("component", "nextbus_service")),
		searchLimit: opts.SearchLimit,
		minScore:    opts.MinScore,
		grace:       opts.Grace,
		now:         time.Now,
	}
	if s.searchLimit <= 0 {
		s.searchLimit = config.DefaultSearchLimit
	}
	if s.minScore <= 0 {
		s.minScore = config.DefaultMinScore
	}
	if s.grace <= 0 {
		s.grace = config.DefaultGraceMinutes * time.Minute
	}
	if feed != nil && feed.Trips == nil {
		feed.Trips = holderTrips{schedule}
	}
	return s
}

// holderTrips resolves trips against whichever store is current.
type holderTrips struct{ h *gtfs.Holder }

func (t holderTrips) TripRouteID(id string) string {
	if st := t.h.Load(); st != nil {
		return st.TripRouteID(id)
	}
	return ""
}

func (t holderTrips) TripHeadsign(id string) string {
	if st := t.h.Load(); st != nil {
		return st.TripHeadsign(id)
	}
	return ""
}

// Store returns the schedule currently in use.
func (s *Service) Store() *gtfs.Store { return s.schedule.Load() }

// Reload builds a new schedule with load and swaps it in.
func (s *Service) Reload(ctx context.Context, load gtfs.Loader) error {
	start := s.now()
	if err := s.schedule.Reload(ctx, load); err != nil {
		logging.LogError(s.logger, "schedule reload failed", err)
		return err
	}
	logging.LogOperation(s.logger, "schedule_reloaded", slog.Duration("duration", s.now().Sub(start)))
	return nil
}

// SearchStops returns at most limit stops; limit <= 0 uses the configured default.
func (s *Service) SearchStops(query string, limit int) []gtfs.Stop {
	if limit <= 0 {
		limit = s.searchLimit
	}
	return s.Store().SearchStopsAbove(query, limit, s.minScore)
}

// ResolveStop maps free text to one stop; see gtfs.Store.ResolveStop.
func (s *Service) ResolveStop(query string) (gtfs.Stop, bool) { return s.Store().ResolveStop(query) }

// GetStop looks up a stop in the current schedule.
func (s *Service) GetStop(id string) (gtfs.Stop, bool) { return s.Store().GetStop(id) }

// GetRoute looks up a route in the current schedule.
func (s *Service) GetRoute(id string) (gtfs.Route, bool) { return s.Store().GetRoute(id) }

// RoutesForStop lists the routes serving a stop, ordered by id.
func (s *Service) RoutesForStop(id string) []gtfs.Route { return s.Store().RoutesForStop(id) }

// StopsForRoute lists the stops a route calls at, ordered by id.
func (s *Service) StopsForRoute(id string) []gtfs.Stop { return s.Store().StopsForRoute(id) }

// RouteName is the short display name of a route, or the id itself when the
// route is unknown.
func (s *Service) RouteName(routeID string) string {
	if r, ok := s.GetRoute(routeID); ok {
		return r.DisplayName()
	}
	return routeID
}

// ScheduledArrivals runs a schedule query as given.
func (s *Service) ScheduledArrivals(q gtfs.ScheduleQuery) []gtfs.ScheduleEntry {
	return s.Store().ScheduledArrivals(q)
}

// UpcomingSchedule is the rider view of the schedule: today's service from a
// grace period ago, limited to window (0 for the rest of the day).
func (s *Service) UpcomingSchedule(stopID, routeID string, window time.Duration) []gtfs.ScheduleEntry {
	now := s.now()
	return s.ScheduledArrivals(gtfs.ScheduleQuery{
		StopID:      stopID,
		Day:         now.Weekday(),
		Date:        now,
		FromSeconds: gtfs.ScheduleFrom(now, s.grace),
		Window:      int(window / time.Second),
		RouteID:     routeID,
	})
}

// ParseScheduleQuery builds a query for stopID from day, date, from, window
// and route parameters. Bad values come back as *QueryError.
func (s *Service) ParseScheduleQuery(stopID string, params url.Values) (gtfs.ScheduleQuery, error) {
	return parseScheduleQuery(stopID, params, s.now(), s.grace)
}

// ScheduleNow is the time of day that entries of q are marked as departed
// against. It is 0 when q is not for today, so nothing is marked.
func (s *Service) ScheduleNow(q gtfs.ScheduleQuery) int {
	now := s.now()
	if q.Day != now.Weekday() || (!q.Date.IsZero() && q.Date.Format("20060102") != now.Format("20060102")) {
		return 0
	}
	return utils.SecondsOfDay(now)
}

// ArrivalsForStop returns ranked live arrivals. A feed failure is returned as
// an error so callers can tell it apart from an empty list.
func (s *Service) ArrivalsForStop(ctx context.Context, stopID, routeID string) ([]gtfsrt.Arrival, error) {
	return s.feed.ArrivalsForStop(ctx, stopID, routeID)
}

// NextArrival returns the soonest live arrival at stopID on routeID.
func (s *Service) NextArrival(ctx context.Context, stopID, routeID string) (gtfsrt.Arrival, bool, error) {
	return s.feed.NextArrival(ctx, stopID, routeID)
}

// FormatArrival renders an arrival using the route's display name.
func (s *Service) FormatArrival(a gtfsrt.Arrival) string {
	return formatter.FormatArrival(a, s.RouteName(a.RouteID))
}

// FormatScheduledEntry renders a schedule entry relative to the current time.
func (s *Service) FormatScheduledEntry(e gtfs.ScheduleEntry) string {
	now := s.now()
	return formatter.FormatScheduledEntry(e, s.RouteName(e.RouteID), utils.SecondsOfDay(now))
}
