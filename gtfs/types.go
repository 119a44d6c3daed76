package gtfs

import "time"

// Stop is a boarding location from stops.txt
type Stop struct {
	ID   string  `json:"stop_id"`
	Code string  `json:"stop_code"`
	Name string  `json:"stop_name"`
	Lat  float64 `json:"stop_lat"`
	Lon  float64 `json:"stop_lon"`
}

// Route is a bus line from routes.txt
type Route struct {
	ID        string `json:"route_id"`
	ShortName string `json:"route_short_name"`
	LongName  string `json:"route_long_name"`
	Color     string `json:"route_color"`
}

// DisplayName is the short name, falling back to the long name and then the id.
func (r Route) DisplayName() string {
	switch {
	case r.ShortName != "":
		return r.ShortName
	case r.LongName != "":
		return r.LongName
	}
	return r.ID
}

// ServiceCalendar is one calendar.txt row. Days is indexed by time.Weekday.
// StartDate and EndDate are YYYYMMDD; an empty bound is open.
type ServiceCalendar struct {
	ServiceID string
	Days      [7]bool
	StartDate string
	EndDate   string
}

// RunsOn reports whether the service operates on day for the given date.
func (c ServiceCalendar) RunsOn(day time.Weekday, date time.Time) bool {
	if !c.Days[day] {
		return false
	}
	ymd := date.Format(dateLayout)
	if c.StartDate != "" && ymd < c.StartDate {
		return false
	}
	if c.EndDate != "" && ymd > c.EndDate {
		return false
	}
	return true
}

// Trip is one run of a route from trips.txt
type Trip struct {
	ID        string `json:"trip_id"`
	RouteID   string `json:"route_id"`
	ServiceID string `json:"service_id"`
	Headsign  string `json:"trip_headsign"`
}

// StopVisit is one timed call of a trip at a stop.
type StopVisit struct {
	Seconds int
	TripID  string
}

// ScheduleEntry is a StopVisit resolved against its trip.
type ScheduleEntry struct {
	Seconds  int    `json:"seconds"`
	TripID   string `json:"trip_id"`
	RouteID  string `json:"route_id"`
	Headsign string `json:"headsign"`
}

// Stats summarises what a Store holds.
type Stats struct {
	Stops     int  `json:"stops"`
	Routes    int  `json:"routes"`
	Trips     int  `json:"trips"`
	Services  int  `json:"services"`
	Visits    int  `json:"visits"`
	Orphans   int  `json:"orphan_visits"`
	Untimed   int  `json:"untimed_visits"`
	Calendars bool `json:"has_calendar"`
}
