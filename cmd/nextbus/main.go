// Command nextbus answers "when is the next bus" from a GTFS schedule and a
// GTFS-Realtime trip-updates feed, on the command line or over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
