// Package nextbus answers "when is the next bus at this stop?" by combining
// a static GTFS schedule with a GTFS-Realtime trip-updates feed.
//
// Service is the entry point used by front ends; Server exposes the same
// operations over HTTP.
package nextbus
