// Package gtfsrt fetches GTFS-Realtime trip updates and turns them into
// ranked live arrivals for a stop.
//
// Client.FetchTripUpdates performs one bounded network call and returns the
// decoded FeedMessage or a *FeedFetchError. ArrivalsFromFeed is pure, so a
// single fetched message can be ranked for several stops.
package gtfsrt
