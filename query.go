package nextbus

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/nextbus/gtfs"
	"github.com/theoremus-urban-solutions/nextbus/utils"
)

// QueryError is a bad query parameter; it maps to HTTP 400.
type QueryError struct {
	Param string
	Msg   string
}

func (e *QueryError) Error() string { return e.Param + ": " + e.Msg }

// parseNonNegativeInt returns def for an empty value.
func parseNonNegativeInt(param, s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, &QueryError{Param: param, Msg: "must be a non-negative integer"}
	}
	return v, nil
}

func parseDay(s string) (time.Weekday, error) {
	d, err := gtfs.ParseWeekday(s)
	if err != nil {
		return 0, &QueryError{Param: "day", Msg: "must be a day name such as monday or mon"}
	}
	return d, nil
}

// parseDate accepts YYYYMMDD or YYYY-MM-DD in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &QueryError{Param: "date", Msg: "must be YYYYMMDD or YYYY-MM-DD"}
}

// parseScheduleQuery builds a schedule query from request parameters.
// Without day or date the query is "today from a grace period ago"; naming
// another day starts from midnight unless from is given.
func parseScheduleQuery(stopID string, q url.Values, now time.Time, grace time.Duration) (gtfs.ScheduleQuery, error) {
	sq := gtfs.ScheduleQuery{StopID: stopID, Date: now, Day: now.Weekday(), RouteID: strings.TrimSpace(q.Get("route"))}
	explicit := false

	if v := q.Get("date"); v != "" {
		d, err := parseDate(v, now.Location())
		if err != nil {
			return sq, err
		}
		sq.Date, sq.Day = d, d.Weekday()
		explicit = true
	}
	if v := q.Get("day"); v != "" {
		d, err := parseDay(v)
		if err != nil {
			return sq, err
		}
		sq.Day = d
		explicit = true
	}

	switch v := q.Get("from"); {
	case v != "":
		sec, err := utils.ParseHHMM(v)
		if err != nil {
			return sq, &QueryError{Param: "from", Msg: "must be H:MM or H:MM:SS"}
		}
		sq.FromSeconds = sec
	case !explicit:
		sq.FromSeconds = gtfs.ScheduleFrom(now, grace)
	}

	minutes, err := parseNonNegativeInt("window", q.Get("window"), 0)
	if err != nil {
		return sq, err
	}
	sq.Window = minutes * 60
	return sq, nil
}
