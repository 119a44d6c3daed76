package gtfs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTable is returned when a required table is absent from the source.
	ErrMissingTable = errors.New("missing required table")
	// ErrMissingColumn is returned when a table lacks a required header.
	ErrMissingColumn = errors.New("missing required column")
)

// DataLoadError reports a static table that could not be loaded. Line is the
// 1-based line in the file, or 0 when the problem is not tied to a row.
type DataLoadError struct {
	Table string
	Line  int
	Field string
	Err   error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("gtfs %s line %d field %s: %v", e.Table, e.Line, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("gtfs %s field %s: %v", e.Table, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("gtfs %s line %d: %v", e.Table, e.Line, e.Err)
	}
	return fmt.Sprintf("gtfs %s: %v", e.Table, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
