package gtfs

import (
	"archive/zip"
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

const (
	stopsTXT = "\xEF\xBB\xBFstop_id,stop_code,stop_name,stop_lat,stop_lon\n" +
		"BUS215,BUS215,CityBus Center,40.4195,-86.8920\n" +
		"BUS100,,Walmart East,40.4200,-86.8500\n" +
		"BUS101,,Walmart West,40.4300,-86.9500\n" +
		"BUS102,,Walmart,40.4400,-86.9000\n" +
		"BUS300,,Purdue Memorial Union,40.4240,-86.9110\n" +
		"BUS999,,Lafayette Transfer Center,40.4100,-86.8900\n"

	routesTXT = "route_id,route_short_name,route_long_name,route_color\n" +
		"R1,1B,Salisbury,\n" +
		"R4,4B,Purdue West,C28E0E\n" +
		"R9,9,Orphan Route,\n"

	calendarTXT = "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"WK2024,1,1,1,1,1,0,0,20240101,20241231\n" +
		"SAT,0,0,0,0,0,1,0,20240101,20241231\n"

	tripsTXT = "route_id,service_id,trip_id,trip_headsign\n" +
		"R1,WK2024,T1,Walmart East\n" +
		"R1,WK2024,T2,Walmart East\n" +
		"R4,SAT,T3,Purdue West\n" +
		"R4,WK2024,T4,\n"

	stopTimesTXT = "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:30:00,08:30:00,BUS215,1\n" +
		"T1,08:45:00,08:45:00,BUS100,2\n" +
		"T2,25:10:00,25:10:00,BUS215,1\n" +
		"T2,,,BUS100,2\n" +
		"T3,09:00:00,09:00:00,BUS215,1\n" +
		"T4,,07:15:00,BUS215,1\n" +
		"T4, 8:00:00,,BUS300,2\n" +
		"GHOST,10:00:00,10:00:00,BUS215,1\n"
)

// fixtureFS returns a fresh copy of the schedule fixture so tests can edit it.
func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"stops.txt":      {Data: []byte(stopsTXT)},
		"routes.txt":     {Data: []byte(routesTXT)},
		"calendar.txt":   {Data: []byte(calendarTXT)},
		"trips.txt":      {Data: []byte(tripsTXT)},
		"stop_times.txt": {Data: []byte(stopTimesTXT)},
	}
}

func loadFixture(t *testing.T) *Store {
	t.Helper()
	s, err := Load(fixtureFS(), discardLogger())
	require.NoError(t, err)
	return s
}

// fixtureZip packs the fixture under prefix, e.g. "gtfs/".
func fixtureZip(t *testing.T, prefix string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, f := range fixtureFS() {
		w, err := zw.Create(prefix + name)
		require.NoError(t, err)
		_, err = w.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
