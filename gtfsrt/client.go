package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
)

// DefaultTimeout bounds one feed fetch when ClientConfig.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// ClientConfig configures a Client.
type ClientConfig struct {
	// URL of the trip-updates feed. A value without an http(s) scheme is read
	// as a local file, which is handy for replaying captured feeds.
	URL        string
	Timeout    time.Duration
	MaxFeedAge time.Duration // 0 disables the staleness check
	Horizon    int           // minutes; 0 means DefaultHorizonMinutes
	Now        func() time.Time
}

// Client fetches the trip-updates feed. It holds no feed state between calls.
type Client struct {
	url        string
	httpClient *http.Client
	maxFeedAge time.Duration
	horizon    int
	logger     *slog.Logger
	now        func() time.Time

	// Trips fills in route ids and headsigns the feed leaves out. Optional.
	Trips TripResolver
}

// NewClient creates a Client. A zero Timeout falls back to DefaultTimeout.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		maxFeedAge: cfg.MaxFeedAge,
		horizon:    cfg.Horizon,
		logger:     logging.OrDefault(logger).With(slog.String("component", "gtfsrt_client")),
		now:        now,
	}
}

// URL returns the feed location the client reads.
func (c *Client) URL() string { return c.url }

// FetchTripUpdates downloads and decodes one feed message. The payload is
// fully buffered before decoding. No retries are attempted.
func (c *Client) FetchTripUpdates(ctx context.Context) (*gtfsrtpb.FeedMessage, error) {
	start := c.now()
	raw, err := c.fetch(ctx)
	if err != nil {
		logging.LogError(c.logger, "trip updates fetch failed", err, slog.String("url", c.url))
		return nil, err
	}

	fm, err := Decode(raw)
	if err != nil {
		err = &FeedFetchError{URL: c.url, Err: err}
		logging.LogError(c.logger, "trip updates decode failed", err, slog.String("url", c.url))
		return nil, err
	}

	if c.maxFeedAge > 0 && fm.Header != nil && fm.Header.Timestamp != nil {
		age := c.now().Sub(time.Unix(int64(*fm.Header.Timestamp), 0))
		if age > c.maxFeedAge {
			err := &FeedFetchError{URL: c.url, Err: fmt.Errorf("%w: header is %s old", ErrStaleFeed, age.Truncate(time.Second))}
			logging.LogError(c.logger, "trip updates feed stale", err, slog.String("url", c.url))
			return nil, err
		}
	}

	logging.LogOperation(c.logger, "trip_updates_fetched",
		slog.String("url", c.url),
		slog.Int("entities", len(fm.Entity)),
		slog.Int("bytes", len(raw)),
		slog.Duration("duration", c.now().Sub(start)))
	return fm, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(c.url, "http://") && !strings.HasPrefix(c.url, "https://") {
		b, err := os.ReadFile(strings.TrimPrefix(c.url, "file://"))
		if err != nil {
			return nil, &FeedFetchError{URL: c.url, Err: err}
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FeedFetchError{URL: c.url, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedFetchError{URL: c.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedFetchError{URL: c.url, StatusCode: resp.StatusCode, Err: ErrBadStatus}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FeedFetchError{URL: c.url, StatusCode: resp.StatusCode, Err: err}
	}
	return b, nil
}

// Decode parses a binary FeedMessage. Missing required fields and unknown
// extensions are tolerated; every optional field is presence-checked later.
func Decode(raw []byte) (*gtfsrtpb.FeedMessage, error) {
	var fm gtfsrtpb.FeedMessage
	opts := proto.UnmarshalOptions{AllowPartial: true, DiscardUnknown: true}
	if err := opts.Unmarshal(raw, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &fm, nil
}

// ArrivalsForStop fetches the feed and ranks the arrivals at stopID,
// optionally restricted to routeID. A fetch failure is returned as an error,
// distinct from an empty result.
func (c *Client) ArrivalsForStop(ctx context.Context, stopID, routeID string) ([]Arrival, error) {
	fm, err := c.FetchTripUpdates(ctx)
	if err != nil {
		return nil, err
	}
	return ArrivalsFromFeed(fm, stopID, routeID, c.now(), c.options()), nil
}

// ArrivalsForStops ranks several stops against a single fetch.
func (c *Client) ArrivalsForStops(ctx context.Context, stopIDs []string, routeID string) (map[string][]Arrival, error) {
	fm, err := c.FetchTripUpdates(ctx)
	if err != nil {
		return nil, err
	}
	now := c.now()
	out := make(map[string][]Arrival, len(stopIDs))
	for _, id := range stopIDs {
		out[id] = ArrivalsFromFeed(fm, id, routeID, now, c.options())
	}
	return out, nil
}

// NextArrival returns the soonest arrival at stopID on routeID, if any.
func (c *Client) NextArrival(ctx context.Context, stopID, routeID string) (Arrival, bool, error) {
	arrivals, err := c.ArrivalsForStop(ctx, stopID, routeID)
	if err != nil {
		return Arrival{}, false, err
	}
	if len(arrivals) == 0 {
		return Arrival{}, false, nil
	}
	return arrivals[0], true, nil
}

func (c *Client) options() Options {
	return Options{Horizon: c.horizon, Trips: c.Trips}
}
