package nextbus

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/theoremus-urban-solutions/nextbus/formatter"
	"github.com/theoremus-urban-solutions/nextbus/gtfs"
)

func idParam(r *http.Request) string {
	return strings.TrimSpace(httprouter.ParamsFromContext(r.Context()).ByName("id"))
}

type stopDetail struct {
	gtfs.Stop
	Routes []gtfs.Route `json:"routes"`
}

type scheduleItem struct {
	gtfs.ScheduleEntry
	Clock     string `json:"clock"`
	RouteName string `json:"route_name"`
	Line      string `json:"line"`
}

type scheduleResponse struct {
	StopID      string         `json:"stop_id"`
	Day         string         `json:"day"`
	FromSeconds int            `json:"from_seconds"`
	Window      int            `json:"window_seconds"`
	Entries     []scheduleItem `json:"entries"`
}

func (srv *Server) handleSearchStops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		srv.fail(w, r, http.StatusBadRequest, "q: required")
		return
	}
	limit, err := parseNonNegativeInt("limit", q.Get("limit"), 0)
	if err != nil {
		srv.failQuery(w, r, err)
		return
	}
	stops := srv.svc.SearchStops(query, limit)
	if stops == nil {
		stops = []gtfs.Stop{}
	}
	srv.respond(w, r, stops)
}

func (srv *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	stop, ok := srv.svc.GetStop(idParam(r))
	if !ok {
		srv.notFound(w, r, "stop")
		return
	}
	srv.respond(w, r, stopDetail{Stop: stop, Routes: srv.svc.RoutesForStop(stop.ID)})
}

func (srv *Server) handleStopRoutes(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if _, ok := srv.svc.GetStop(id); !ok {
		srv.notFound(w, r, "stop")
		return
	}
	srv.respond(w, r, srv.svc.RoutesForStop(id))
}

func (srv *Server) handleStopSchedule(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if _, ok := srv.svc.GetStop(id); !ok {
		srv.notFound(w, r, "stop")
		return
	}
	sq, err := srv.svc.ParseScheduleQuery(id, r.URL.Query())
	if err != nil {
		srv.failQuery(w, r, err)
		return
	}

	entries := srv.svc.ScheduledArrivals(sq)
	nowSeconds := srv.svc.ScheduleNow(sq)
	resp := scheduleResponse{
		StopID:      id,
		Day:         strings.ToLower(sq.Day.String()),
		FromSeconds: sq.FromSeconds,
		Window:      sq.Window,
		Entries:     make([]scheduleItem, 0, len(entries)),
	}
	for _, e := range entries {
		name := srv.svc.RouteName(e.RouteID)
		resp.Entries = append(resp.Entries, scheduleItem{
			ScheduleEntry: e,
			Clock:         formatter.Clock12(e.Seconds),
			RouteName:     name,
			Line:          formatter.FormatScheduledEntry(e, name, nowSeconds),
		})
	}
	srv.respond(w, r, resp)
}

func (srv *Server) handleStopArrivals(w http.ResponseWriter, r *http.Request) {
	board, ok := srv.svc.LiveBoard(r.Context(), idParam(r), strings.TrimSpace(r.URL.Query().Get("route")))
	if !ok {
		srv.notFound(w, r, "stop")
		return
	}
	srv.respond(w, r, board)
}

func (srv *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := srv.svc.GetRoute(idParam(r))
	if !ok {
		srv.notFound(w, r, "route")
		return
	}
	srv.respond(w, r, route)
}

func (srv *Server) handleRouteStops(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if _, ok := srv.svc.GetRoute(id); !ok {
		srv.notFound(w, r, "route")
		return
	}
	srv.respond(w, r, srv.svc.StopsForRoute(id))
}
