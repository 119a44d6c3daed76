package gtfsrt

import (
	"errors"
	"fmt"
)

var (
	ErrBadStatus = errors.New("unexpected HTTP status")
	ErrDecode    = errors.New("malformed feed payload")
	ErrStaleFeed = errors.New("feed is stale")
)

// FeedFetchError is returned for any failure to obtain a usable feed:
// transport errors, timeouts, non-200 responses, bad payloads, stale headers.
type FeedFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FeedFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FeedFetchError) Unwrap() error { return e.Err }
