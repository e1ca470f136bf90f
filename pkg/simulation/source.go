package simulation

import "io"

// Source supplies arrival records in non-decreasing time order. Next
// returns io.EOF once the feed is exhausted.
type Source interface {
	Next() (Arrival, error)
}

// SliceSource serves arrivals from memory
type SliceSource struct {
	records []Arrival
	pos     int
}

// NewSliceSource creates a source over records. The slice is not copied.
func NewSliceSource(records []Arrival) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or io.EOF
func (s *SliceSource) Next() (Arrival, error) {
	if s.pos >= len(s.records) {
		return Arrival{}, io.EOF
	}
	a := s.records[s.pos]
	s.pos++
	return a, nil
}
