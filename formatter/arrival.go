package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/nextbus/gtfsrt"
)

const busIcon = "🚌"

// TimePhrase renders minutes until arrival.
func TimePhrase(minutes int) string {
	switch minutes {
	case 0:
		return "arriving now"
	case 1:
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// DelayPhrase renders a delay in seconds, or "" when it is within a minute
// either way.
func DelayPhrase(delaySeconds int) string {
	switch {
	case delaySeconds > 60:
		return fmt.Sprintf("delayed %dmin", delaySeconds/60)
	case delaySeconds < -60:
		return fmt.Sprintf("%dmin early", -delaySeconds/60)
	}
	return ""
}

// FormatArrival renders a live arrival as one line, e.g.
//
//	🚌 Route 4B → Purdue West: 5 minutes (delayed 1min)
//
// An empty routeName falls back to the arrival's route id.
func FormatArrival(a gtfsrt.Arrival, routeName string) string {
	if routeName == "" {
		routeName = a.RouteID
	}
	var b strings.Builder
	b.WriteString(busIcon)
	b.WriteString(" Route ")
	b.WriteString(routeName)
	if a.Headsign != "" {
		b.WriteString(" → ")
		b.WriteString(a.Headsign)
	}
	b.WriteString(": ")
	b.WriteString(TimePhrase(a.MinutesUntil))
	if d := DelayPhrase(a.DelaySeconds); d != "" {
		b.WriteString(" (")
		b.WriteString(d)
		b.WriteString(")")
	}
	return b.String()
}

// FormatArrivalCompact is the short form used in stop summaries, e.g.
// "• 4B: 3mins (8:33AM)" or "• 4B: Now (8:30AM)".
func FormatArrivalCompact(a gtfsrt.Arrival, routeName string, loc *time.Location) string {
	if routeName == "" {
		routeName = a.RouteID
	}
	if loc == nil {
		loc = time.Local
	}
	at := a.PredictedAt.In(loc).Format("3:04PM")
	if a.MinutesUntil == 0 {
		return fmt.Sprintf("• %s: Now (%s)", routeName, at)
	}
	return fmt.Sprintf("• %s: %dmins (%s)", routeName, a.MinutesUntil, at)
}
