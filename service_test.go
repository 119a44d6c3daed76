package nextbus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/nextbus/config"
	"github.com/theoremus-urban-solutions/nextbus/gtfs"
	"github.com/theoremus-urban-solutions/nextbus/gtfsrt"
	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
)

// Monday 08:25 inside the fixture's 2024 weekday service.
var fixedNow = time.Date(2024, time.March, 4, 8, 25, 0, 0, time.UTC)

func loadTestStore(t *testing.T) *gtfs.Store {
	t.Helper()
	store, err := gtfs.LoadDir("testdata/gtfs", logging.Discard())
	require.NoError(t, err)
	return store
}

func stopUpdate(stopID string, at time.Time, delay int32) *gtfsrtpb.TripUpdate_StopTimeUpdate {
	return &gtfsrtpb.TripUpdate_StopTimeUpdate{
		StopId:  proto.String(stopID),
		Arrival: &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(at.Unix()), Delay: proto.Int32(delay)},
	}
}

func tripUpdate(id, tripID, routeID string, updates ...*gtfsrtpb.TripUpdate_StopTimeUpdate) *gtfsrtpb.FeedEntity {
	td := &gtfsrtpb.TripDescriptor{TripId: proto.String(tripID)}
	if routeID != "" {
		td.RouteId = proto.String(routeID)
	}
	return &gtfsrtpb.FeedEntity{Id: proto.String(id), TripUpdate: &gtfsrtpb.TripUpdate{Trip: td, StopTimeUpdate: updates}}
}

// liveFeed has T1 five minutes out with a 90s delay and T4 two minutes out
// without a route id, so the route and headsign come from the schedule.
func liveFeed() *gtfsrtpb.FeedMessage {
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(fixedNow.Unix())),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			tripUpdate("e1", "T1", "R1", stopUpdate("BUS215", fixedNow.Add(5*time.Minute), 90)),
			tripUpdate("e2", "T4", "", stopUpdate("BUS215", fixedNow.Add(2*time.Minute), 0), stopUpdate("BUS300", fixedNow.Add(9*time.Minute), 0)),
		},
	}
}

func feedHandler(t *testing.T, fm *gtfsrtpb.FeedMessage) http.Handler {
	t.Helper()
	b, err := proto.Marshal(fm)
	require.NoError(t, err)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(b) })
}

func newTestService(t *testing.T, feed http.Handler) *Service {
	t.Helper()
	upstream := httptest.NewServer(feed)
	t.Cleanup(upstream.Close)

	client := gtfsrt.NewClient(gtfsrt.ClientConfig{
		URL: upstream.URL,
		Now: func() time.Time { return fixedNow },
	}, logging.Discard())
	svc := NewService(gtfs.NewHolder(loadTestStore(t)), client, Options{Logger: logging.Discard()})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestLiveBoard_Live(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))

	b, ok := svc.LiveBoard(context.Background(), "BUS215", "")
	require.True(t, ok)
	assert.Equal(t, StatusLive, b.Status)
	assert.Equal(t, "CityBus Center", b.Stop.Name)
	assert.Equal(t, []string{
		"🚌 Route 4B → Purdue West: 2 minutes",
		"🚌 Route 1B → Walmart East: 5 minutes (delayed 1min)",
	}, b.Lines)
	assert.Empty(t, b.Message)

	b, ok = svc.LiveBoard(context.Background(), "BUS215", "R1")
	require.True(t, ok)
	require.Len(t, b.Arrivals, 1)
	assert.Equal(t, "T1", b.Arrivals[0].TripID)
}

func TestLiveBoard_NoArrivals(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))

	b, ok := svc.LiveBoard(context.Background(), "BUS999", "")
	require.True(t, ok)
	assert.Equal(t, StatusNoArrivals, b.Status)
	assert.NotNil(t, b.Arrivals)
	assert.Empty(t, b.Arrivals)
	assert.Equal(t, noArrivalsMessage, b.Message)
}

func TestLiveBoard_FeedDown(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	b, ok := svc.LiveBoard(context.Background(), "BUS215", "")
	require.True(t, ok)
	assert.Equal(t, StatusUnavailable, b.Status)
	assert.Empty(t, b.Arrivals)
	assert.Equal(t, unavailableMessage, b.Message)

	_, err := svc.ArrivalsForStop(context.Background(), "BUS215", "")
	var ffe *gtfsrt.FeedFetchError
	assert.True(t, errors.As(err, &ffe))
}

func TestLiveBoard_UnknownStop(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))
	_, ok := svc.LiveBoard(context.Background(), "NOPE", "")
	assert.False(t, ok)
}

func TestNextArrival(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))

	a, ok, err := svc.NextArrival(context.Background(), "BUS215", "R4")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T4", a.TripID)
	assert.Equal(t, "Purdue West", a.Headsign)
}

func TestUpcomingSchedule(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))

	var trips []string
	for _, e := range svc.UpcomingSchedule("BUS215", "", 0) {
		trips = append(trips, e.TripID)
	}
	assert.Equal(t, []string{"T4", "T1", "T2"}, trips, "08:15 is inside the 15 minute grace period")

	windowed := svc.UpcomingSchedule("BUS215", "", 10*time.Minute)
	require.Len(t, windowed, 1)
	assert.Equal(t, "⏮️ 8:15AM - 4B to Purdue West", svc.FormatScheduledEntry(windowed[0]))

	r1 := svc.UpcomingSchedule("BUS215", "R1", 0)
	require.Len(t, r1, 2)
	assert.Equal(t, "✅ 8:30AM - 1B to Walmart East", svc.FormatScheduledEntry(r1[0]))
	assert.Equal(t, "✅ 1:10AM (+1) - 1B to Walmart East", svc.FormatScheduledEntry(r1[1]))
}

func TestSearchAndLookups(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))

	hits := svc.SearchStops("walmart", 0)
	require.Len(t, hits, 3)
	assert.Equal(t, "BUS102", hits[0].ID)

	stop, ok := svc.ResolveStop("bus215")
	require.True(t, ok)
	assert.Equal(t, "BUS215", stop.ID)

	assert.Equal(t, "4B", svc.RouteName("R4"))
	assert.Equal(t, "R77", svc.RouteName("R77"))
	assert.Len(t, svc.RoutesForStop("BUS215"), 2)
	assert.Len(t, svc.StopsForRoute("R1"), 2)
}

func TestReload(t *testing.T) {
	svc := newTestService(t, feedHandler(t, liveFeed()))
	before := svc.Store()

	replacement := loadTestStore(t)
	require.NoError(t, svc.Reload(context.Background(), func(context.Context) (*gtfs.Store, error) {
		return replacement, nil
	}))
	assert.Same(t, replacement, svc.Store())
	assert.NotSame(t, before, svc.Store())

	err := svc.Reload(context.Background(), func(context.Context) (*gtfs.Store, error) {
		return nil, errors.New("bad zip")
	})
	assert.Error(t, err)
	assert.Same(t, replacement, svc.Store())
}

func TestConfigMapping(t *testing.T) {
	cfg := config.Default()
	cfg.GTFSRT = config.GTFSRTConfig{TripUpdatesURL: "http://x/feed.pb", TimeoutMS: 2500, MaxFeedAgeSec: 60, HorizonMinutes: 90}
	cfg.Search.MinScore = 70
	cfg.Schedule.GraceMinutes = 5

	assert.Equal(t, gtfsrt.ClientConfig{
		URL:        "http://x/feed.pb",
		Timeout:    2500 * time.Millisecond,
		MaxFeedAge: time.Minute,
		Horizon:    90,
	}, FeedConfigFrom(cfg.GTFSRT))

	opts := OptionsFrom(cfg, nil)
	assert.Equal(t, config.DefaultSearchLimit, opts.SearchLimit)
	assert.Equal(t, 70.0, opts.MinScore)
	assert.Equal(t, 5*time.Minute, opts.Grace)
}
