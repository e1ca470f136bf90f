package simulation

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when a configured hard limit is hit
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrEmpty is returned when popping an empty event heap
	ErrEmpty = errors.New("event heap is empty")
	// ErrEmptyQueue is returned when dequeuing an empty waiting line
	ErrEmptyQueue = errors.New("waiting line is empty")
	// ErrNoArrivals is returned when the feed has no records at all
	ErrNoArrivals = errors.New("arrival feed is empty")
	// ErrNoStations is returned when a run is started without stations
	ErrNoStations = errors.New("no stations configured")
)

// RecordError reports a bad arrival record pulled from the feed
type RecordError struct {
	Index int // 0-based position in the feed
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("arrival record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
