package formatter

import (
	"fmt"

	"github.com/theoremus-urban-solutions/nextbus/gtfs"
	"github.com/theoremus-urban-solutions/nextbus/utils"
)

const (
	upcomingIcon = "✅"
	departedIcon = "⏮️"
)

// Clock12 renders seconds past midnight on a 12-hour clock. Times past
// 24:00 wrap and get a " (+N)" day suffix: 90600 is "1:10AM (+1)" and
// 180000 is "2:00AM (+2)".
func Clock12(seconds int) string {
	days := seconds / utils.SecondsPerDay
	rest := seconds % utils.SecondsPerDay
	h := rest / 3600
	m := (rest % 3600) / 60
	suffix := ""
	if days > 0 {
		suffix = fmt.Sprintf(" (+%d)", days)
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d%s%s", h12, m, ampm, suffix)
}

// FormatScheduledEntry renders one scheduled visit, marking those before
// nowSeconds as already departed:
//
//	✅ 8:30AM - 1B to Walmart East
func FormatScheduledEntry(e gtfs.ScheduleEntry, routeName string, nowSeconds int) string {
	if routeName == "" {
		routeName = e.RouteID
	}
	icon := upcomingIcon
	if e.Seconds < nowSeconds {
		icon = departedIcon
	}
	line := fmt.Sprintf("%s %s - %s", icon, Clock12(e.Seconds), routeName)
	if e.Headsign != "" {
		line += " to " + e.Headsign
	}
	return line
}
