/*
Package gtfs loads a GTFS static schedule into an immutable in-memory Store.

Five tables are read: stops.txt, routes.txt, calendar.txt, trips.txt and
stop_times.txt. calendar.txt is optional; without it no service runs on any
day and schedule queries return nothing.

# Basic Usage

Load from a directory, a zip on disk, raw zip bytes, or any fs.FS:

	store, err := gtfs.LoadDir("data", logger)
	store, err := gtfs.LoadZipFile("citybus.zip", logger)
	store, err := gtfs.LoadZip(zipBytes, logger)
	store, err := gtfs.Load(fsys, logger)

Any malformed row aborts the load with a *DataLoadError naming the table,
line and field.

# Queries

	stop, ok := store.GetStop("BUS215")
	routes := store.RoutesForStop("BUS215")
	hits := store.SearchStops("walmart", 5)
	entries := store.ScheduledArrivals(gtfs.ScheduleQuery{
		StopID:      "BUS215",
		Day:         time.Monday,
		FromSeconds: 8 * 3600,
		Window:      3600,
	})

# Times

Stop times are kept as seconds past midnight of the service day and are never
wrapped: 25:10:00 is stored as 90600 so post-midnight trips sort after the
rest of the day.

# Reloading

A Store is never mutated after Load returns, so concurrent readers need no
locking. To swap in a new schedule, build it off to the side and publish it
through a Holder.
*/
package gtfs
