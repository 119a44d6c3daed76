package gtfs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday2024   = time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	saturday2024 = time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	monday2025   = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
)

func seconds(entries []ScheduleEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Seconds)
	}
	return out
}

func TestScheduledArrivals_WeekdayVisit(t *testing.T) {
	s := loadFixture(t)

	got := s.ScheduledArrivals(ScheduleQuery{StopID: "BUS215", Day: time.Monday, Date: monday2024, FromSeconds: 28800})
	require.NotEmpty(t, got)
	assert.Equal(t, ScheduleEntry{Seconds: 30600, TripID: "T1", RouteID: "R1", Headsign: "Walmart East"}, got[0])
	assert.Equal(t, []int{30600, 90600}, seconds(got))
}

func TestScheduledArrivals_DayFlagExcludes(t *testing.T) {
	s := loadFixture(t)

	got := s.ScheduledArrivals(ScheduleQuery{StopID: "BUS215", Day: time.Saturday, Date: saturday2024, FromSeconds: 28800})
	assert.Equal(t, []int{32400}, seconds(got))
	for _, e := range got {
		assert.NotEqual(t, "T1", e.TripID)
	}
}

func TestScheduledArrivals_OutsideDateRange(t *testing.T) {
	s := loadFixture(t)

	got := s.ScheduledArrivals(ScheduleQuery{StopID: "BUS215", Day: time.Monday, Date: monday2025, FromSeconds: 28800})
	assert.Empty(t, got)
}

func TestScheduledArrivals_Window(t *testing.T) {
	s := loadFixture(t)

	got := s.ScheduledArrivals(ScheduleQuery{StopID: "BUS215", Day: time.Monday, Date: monday2024, FromSeconds: 28800, Window: 3600})
	assert.Equal(t, []int{30600}, seconds(got))

	// the bound is inclusive
	got = s.ScheduledArrivals(ScheduleQuery{StopID: "BUS215", Day: time.Monday, Date: monday2024, FromSeconds: 26100, Window: 4500})
	assert.Equal(t, []int{26100, 30600}, seconds(got))
}

func TestScheduledArrivals_RouteFilter(t *testing.T) {
	s := loadFixture(t)

	got := s.ScheduledArrivals(ScheduleQuery{StopID: "BUS215", Day: time.Monday, Date: monday2024, RouteID: "R4"})
	require.Len(t, got, 1)
	assert.Equal(t, "T4", got[0].TripID)
	assert.Equal(t, "", got[0].Headsign)
}

func TestScheduledArrivals_UnknownStop(t *testing.T) {
	s := loadFixture(t)
	assert.Empty(t, s.ScheduledArrivals(ScheduleQuery{StopID: "NOPE", Day: time.Monday}))
}

func TestScheduledArrivals_NonDecreasing(t *testing.T) {
	s := loadFixture(t)

	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, stop := range s.Stops() {
			for _, from := range []int{0, 28800, 86400} {
				got := seconds(s.ScheduledArrivals(ScheduleQuery{StopID: stop.ID, Day: day, Date: monday2024, FromSeconds: from}))
				assert.IsNonDecreasing(t, got, "stop %s day %s from %d", stop.ID, day, from)
				for _, sec := range got {
					assert.GreaterOrEqual(t, sec, from)
				}
			}
		}
	}
}

func TestScheduleFrom(t *testing.T) {
	at := time.Date(2024, 3, 4, 8, 10, 0, 0, time.UTC)
	assert.Equal(t, 8*3600+10*60-15*60, ScheduleFrom(at, 15*time.Minute))

	early := time.Date(2024, 3, 4, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 0, ScheduleFrom(early, 15*time.Minute))
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"monday":    time.Monday,
		"Monday":    time.Monday,
		" SAT ":     time.Saturday,
		"thurs":     time.Thursday,
		"sun":       time.Sunday,
		"WEDNESDAY": time.Wednesday,
	}
	for in, want := range tests {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("someday")
	assert.Error(t, err)
}

func TestServiceCalendar_RunsOn(t *testing.T) {
	open := ServiceCalendar{Days: [7]bool{time.Monday: true}}
	assert.True(t, open.RunsOn(time.Monday, monday2025), "empty bounds are open")
	assert.False(t, open.RunsOn(time.Tuesday, monday2025))

	bounded := ServiceCalendar{Days: [7]bool{time.Monday: true}, StartDate: "20240304", EndDate: "20240304"}
	assert.True(t, bounded.RunsOn(time.Monday, monday2024), "bounds are inclusive")
	assert.False(t, bounded.RunsOn(time.Monday, monday2025))
}

func TestRoutesAndStopsIndices(t *testing.T) {
	s := loadFixture(t)

	var routeIDs []string
	for _, r := range s.RoutesForStop("BUS215") {
		routeIDs = append(routeIDs, r.ID)
	}
	assert.Equal(t, []string{"R1", "R4"}, routeIDs)

	var stopIDs []string
	for _, st := range s.StopsForRoute("R4") {
		stopIDs = append(stopIDs, st.ID)
	}
	assert.Equal(t, []string{"BUS215", "BUS300"}, stopIDs)

	assert.Empty(t, s.StopsForRoute("R9"))
	assert.Empty(t, s.RoutesForStop("NOPE"))

	// both directions agree
	for _, stop := range s.Stops() {
		for _, r := range s.RoutesForStop(stop.ID) {
			assert.Contains(t, s.StopsForRoute(r.ID), stop)
		}
	}
}

func TestGetStop_Idempotent(t *testing.T) {
	s := loadFixture(t)
	for _, stop := range s.Stops() {
		got, ok := s.GetStop(stop.ID)
		require.True(t, ok)
		again, ok := s.GetStop(got.ID)
		require.True(t, ok)
		assert.Equal(t, got, again)
	}
	_, ok := s.GetStop("NOPE")
	assert.False(t, ok)
	_, ok = s.GetRoute("NOPE")
	assert.False(t, ok)
}

func TestHolder_Reload(t *testing.T) {
	first := loadFixture(t)
	h := NewHolder(first)
	assert.Same(t, first, h.Load())

	second := loadFixture(t)
	require.NoError(t, h.Reload(context.Background(), func(context.Context) (*Store, error) {
		return second, nil
	}))
	assert.Same(t, second, h.Load())

	boom := errors.New("boom")
	err := h.Reload(context.Background(), func(context.Context) (*Store, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Same(t, second, h.Load(), "failed reload keeps the previous store")

	assert.Same(t, second, h.Swap(first))
	assert.Same(t, first, h.Load())
}
