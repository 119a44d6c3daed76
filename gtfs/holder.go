package gtfs

import (
	"context"
	"sync/atomic"
)

// Loader builds a replacement Store.
type Loader func(ctx context.Context) (*Store, error)

// Holder publishes the current Store. Readers call Load and keep using the
// Store they got; Reload builds a new one and swaps it in with a single
// atomic store.
type Holder struct {
	current atomic.Pointer[Store]
}

// NewHolder returns a Holder publishing s, which may be nil.
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Load returns the current Store, or nil if none was ever set.
func (h *Holder) Load() *Store { return h.current.Load() }

// Swap replaces the current Store and returns the previous one.
func (h *Holder) Swap(s *Store) *Store { return h.current.Swap(s) }

// Reload runs load and publishes its result. On error the current Store is
// left in place.
func (h *Holder) Reload(ctx context.Context, load Loader) error {
	s, err := load(ctx)
	if err != nil {
		return err
	}
	h.current.Store(s)
	return nil
}
