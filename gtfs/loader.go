package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
	"github.com/theoremus-urban-solutions/nextbus/utils"
)

const dateLayout = "20060102"

var (
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
	errEmptyValue = errors.New("empty value")
	weekdayCols   = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
)

// Load parses the schedule tables found at the root of fsys (or in a single
// sub-directory, as some agencies zip them) and returns a ready Store.
func Load(fsys fs.FS, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDefault(logger).With(slog.String("component", "gtfs_loader"))
	start := time.Now()

	s := newStore()
	steps := []func(fs.FS) error{s.loadStops, s.loadRoutes, s.loadCalendar, s.loadTrips, s.loadStopTimes}
	for _, step := range steps {
		if err := step(fsys); err != nil {
			logging.LogError(logger, "gtfs load failed", err)
			return nil, err
		}
	}
	s.buildIndices()

	st := s.Stats()
	logging.LogOperation(logger, "gtfs_loaded",
		slog.Int("stops", st.Stops),
		slog.Int("routes", st.Routes),
		slog.Int("trips", st.Trips),
		slog.Int("services", st.Services),
		slog.Int("visits", st.Visits),
		slog.Duration("duration", time.Since(start)))
	if st.Orphans > 0 {
		logger.Warn("dropped stop times referencing unknown trips", slog.Int("count", st.Orphans))
	}
	if !st.Calendars {
		logger.Warn("calendar.txt not found, no service will be reported")
	}
	return s, nil
}

// LoadDir loads a directory of .txt tables.
func LoadDir(dir string, logger *slog.Logger) (*Store, error) {
	return Load(os.DirFS(dir), logger)
}

// LoadZip loads a GTFS zip held in memory.
func LoadZip(data []byte, logger *slog.Logger) (*Store, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DataLoadError{Table: "zip", Err: err}
	}
	return Load(zr, logger)
}

// LoadZipFile opens a GTFS zip on disk.
func LoadZipFile(name string, logger *slog.Logger) (*Store, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, &DataLoadError{Table: name, Err: err}
	}
	defer logging.SafeCloseWithLogging(zr, logger, "close gtfs zip")
	return Load(zr, logger)
}

// LoadSource picks a loader from the shape of source: an http(s) URL is
// downloaded as a zip, a path ending in .zip is opened as one, anything else
// is treated as a directory.
func LoadSource(ctx context.Context, client *http.Client, source string, logger *slog.Logger) (*Store, error) {
	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		data, err := Download(ctx, client, source)
		if err != nil {
			return nil, err
		}
		return LoadZip(data, logger)
	case strings.EqualFold(path.Ext(source), ".zip"):
		return LoadZipFile(source, logger)
	}
	return LoadDir(source, logger)
}

// Download fetches a static GTFS zip.
func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type record struct {
	line   int
	fields []string
}

type table struct {
	name string
	cols map[string]int
	rows []record
}

func (t *table) get(r record, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (t *table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t *table) fail(r record, field string, err error) error {
	return &DataLoadError{Table: t.name, Line: r.line, Field: field, Err: err}
}

// require returns the trimmed value of col, failing on an empty one.
func (t *table) require(r record, col string) (string, error) {
	v := t.get(r, col)
	if v == "" {
		return "", t.fail(r, col, errEmptyValue)
	}
	return v, nil
}

func findTable(fsys fs.FS, name string) (string, error) {
	if _, err := fs.Stat(fsys, name); err == nil {
		return name, nil
	}
	matches, err := fs.Glob(fsys, "*/"+name)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fs.ErrNotExist
	}
	return matches[0], nil
}

// readTable reads name from fsys. A missing optional table returns (nil, nil).
func readTable(fsys fs.FS, name string, optional bool, required ...string) (*table, error) {
	p, err := findTable(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		if optional {
			return nil, nil
		}
		return nil, &DataLoadError{Table: name, Err: ErrMissingTable}
	}
	if err != nil {
		return nil, &DataLoadError{Table: name, Err: err}
	}
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, &DataLoadError{Table: name, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	t := &table{name: name, cols: map[string]int{}}

	header, err := cr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &DataLoadError{Table: name, Line: 1, Err: err}
	}
	for i, h := range header {
		t.cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if !t.has(col) {
			return nil, &DataLoadError{Table: name, Field: col, Err: ErrMissingColumn}
		}
	}

	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &DataLoadError{Table: name, Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, record{line: line, fields: fields})
	}
	return t, nil
}

func (s *Store) loadStops(fsys fs.FS) error {
	t, err := readTable(fsys, "stops.txt", false, "stop_id", "stop_name", "stop_lat", "stop_lon")
	if err != nil {
		return err
	}
	for _, r := range t.rows {
		id, err := t.require(r, "stop_id")
		if err != nil {
			return err
		}
		lat, err := strconv.ParseFloat(t.get(r, "stop_lat"), 64)
		if err != nil {
			return t.fail(r, "stop_lat", err)
		}
		lon, err := strconv.ParseFloat(t.get(r, "stop_lon"), 64)
		if err != nil {
			return t.fail(r, "stop_lon", err)
		}
		code := t.get(r, "stop_code")
		if code == "" {
			code = id
		}
		if _, dup := s.stops[id]; !dup {
			s.stopOrder = append(s.stopOrder, id)
		}
		s.stops[id] = Stop{ID: id, Code: code, Name: t.get(r, "stop_name"), Lat: lat, Lon: lon}
	}
	return nil
}

func (s *Store) loadRoutes(fsys fs.FS) error {
	t, err := readTable(fsys, "routes.txt", false, "route_id")
	if err != nil {
		return err
	}
	for _, r := range t.rows {
		id, err := t.require(r, "route_id")
		if err != nil {
			return err
		}
		color := t.get(r, "route_color")
		if color == "" {
			color = "000000"
		}
		s.routes[id] = Route{
			ID:        id,
			ShortName: t.get(r, "route_short_name"),
			LongName:  t.get(r, "route_long_name"),
			Color:     color,
		}
	}
	return nil
}

func (s *Store) loadCalendar(fsys fs.FS) error {
	required := append([]string{"service_id"}, weekdayCols[:]...)
	t, err := readTable(fsys, "calendar.txt", true, required...)
	if err != nil || t == nil {
		return err
	}
	s.hasCalendar = true
	for _, r := range t.rows {
		id, err := t.require(r, "service_id")
		if err != nil {
			return err
		}
		cal := ServiceCalendar{ServiceID: id}
		for day, col := range weekdayCols {
			flag, err := strconv.Atoi(t.get(r, col))
			if err != nil {
				return t.fail(r, col, err)
			}
			cal.Days[day] = flag == 1
		}
		for _, col := range []string{"start_date", "end_date"} {
			v := t.get(r, col)
			if v == "" {
				continue
			}
			if _, err := time.Parse(dateLayout, v); err != nil {
				return t.fail(r, col, err)
			}
		}
		cal.StartDate = t.get(r, "start_date")
		cal.EndDate = t.get(r, "end_date")
		s.calendar[id] = cal
	}
	return nil
}

func (s *Store) loadTrips(fsys fs.FS) error {
	t, err := readTable(fsys, "trips.txt", false, "trip_id", "route_id", "service_id")
	if err != nil {
		return err
	}
	for _, r := range t.rows {
		id, err := t.require(r, "trip_id")
		if err != nil {
			return err
		}
		route, err := t.require(r, "route_id")
		if err != nil {
			return err
		}
		s.trips[id] = Trip{
			ID:        id,
			RouteID:   route,
			ServiceID: t.get(r, "service_id"),
			Headsign:  t.get(r, "trip_headsign"),
		}
	}
	return nil
}

func (s *Store) loadStopTimes(fsys fs.FS) error {
	t, err := readTable(fsys, "stop_times.txt", false, "trip_id", "stop_id", "arrival_time")
	if err != nil {
		return err
	}
	for _, r := range t.rows {
		tripID, err := t.require(r, "trip_id")
		if err != nil {
			return err
		}
		stopID, err := t.require(r, "stop_id")
		if err != nil {
			return err
		}
		field, raw := "arrival_time", t.get(r, "arrival_time")
		if raw == "" {
			field, raw = "departure_time", t.get(r, "departure_time")
		}
		if raw == "" {
			s.untimed++
			continue
		}
		sec, err := utils.ParseClock(raw)
		if err != nil {
			return t.fail(r, field, err)
		}
		if _, ok := s.trips[tripID]; !ok {
			s.orphans++
			continue
		}
		s.visits[stopID] = append(s.visits[stopID], StopVisit{Seconds: sec, TripID: tripID})
	}
	for _, v := range s.visits {
		sort.SliceStable(v, func(i, j int) bool { return v[i].Seconds < v[j].Seconds })
	}
	return nil
}
