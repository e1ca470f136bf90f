package simulation

import (
	"fmt"
	"math"
)

// Station is a single checkout
type Station struct {
	ID              int
	Efficiency      float64 // multiplier on demand; lower is faster
	CustomersServed int
	BusyTime        float64

	idle bool
}

// Idle reports whether the station is currently in the idle heap
func (s *Station) Idle() bool { return s.idle }

// Registry owns every station for the length of a run. Ids are assigned
// 0..n-1 in the order stations are added.
type Registry struct {
	stations []*Station
	limit    int
}

// NewRegistry creates an empty registry. A limit of 0 means unbounded.
func NewRegistry(limit int) *Registry {
	return &Registry{limit: limit}
}

// Add creates a station with the given efficiency
func (r *Registry) Add(efficiency float64) (*Station, error) {
	if math.IsNaN(efficiency) || math.IsInf(efficiency, 0) || efficiency <= 0 {
		return nil, fmt.Errorf("station %d: efficiency must be a positive number, got %v", len(r.stations), efficiency)
	}
	if r.limit > 0 && len(r.stations) >= r.limit {
		return nil, fmt.Errorf("registry holds %d stations: %w", r.limit, ErrCapacityExceeded)
	}
	s := &Station{ID: len(r.stations), Efficiency: efficiency}
	r.stations = append(r.stations, s)
	return s, nil
}

// ByID returns the station with the given id. Unknown ids are a loop defect.
func (r *Registry) ByID(id int) *Station {
	if id < 0 || id >= len(r.stations) {
		panic(fmt.Sprintf("unknown station id %d", id))
	}
	return r.stations[id]
}

// BeginService charges serviceTime to the station's busy time
func (r *Registry) BeginService(id int, serviceTime float64) {
	s := r.ByID(id)
	if s.idle {
		panic(fmt.Sprintf("station %d started service while idle", id))
	}
	s.BusyTime += serviceTime
}

// RecordServiceCompletion counts one more customer served by the station
func (r *Registry) RecordServiceCompletion(id int) {
	r.ByID(id).CustomersServed++
}

// All returns the stations in id order
func (r *Registry) All() []*Station {
	return r.stations
}

// Len returns the number of stations
func (r *Registry) Len() int {
	return len(r.stations)
}
