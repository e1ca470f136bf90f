package simulation

// StationStats is the end-of-run view of one station
type StationStats struct {
	ID              int     `json:"id"`
	Efficiency      float64 `json:"efficiency"`
	CustomersServed int     `json:"customers_served"`
	BusyTime        float64 `json:"busy_time"`
	IdleTime        float64 `json:"idle_time"`
}

// Result holds the aggregate counters of a finished run
type Result struct {
	CustomersServed      int     `json:"customers_served"`
	ServedWithoutWaiting int     `json:"served_without_waiting"`
	EventsProcessed      uint64  `json:"events_processed"`
	FirstArrival         float64 `json:"first_arrival"`
	LastEvent            float64 `json:"last_event"`
	TotalElapsed         float64 `json:"total_elapsed"`
	PeakWaiting          int     `json:"peak_waiting"`
	CumulativeWait       float64 `json:"cumulative_wait"`
	AvgWaitingLength     float64 `json:"avg_waiting_length"`
	AvgWait              float64 `json:"avg_wait"`
	PercentNoWait        float64 `json:"percent_no_wait"`

	Stations []StationStats `json:"stations"`
}

func newResult(s *Simulator) *Result {
	r := &Result{
		CustomersServed:      s.served,
		ServedWithoutWaiting: s.servedNoWait,
		EventsProcessed:      s.processed,
		FirstArrival:         s.firstArrival,
		LastEvent:            s.currentTime,
		TotalElapsed:         s.currentTime - s.firstArrival,
		PeakWaiting:          s.line.Peak(),
		CumulativeWait:       s.line.CumulativeWait(),
	}
	if r.TotalElapsed > 0 {
		r.AvgWaitingLength = r.CumulativeWait / r.TotalElapsed
	}
	if r.CustomersServed > 0 {
		r.AvgWait = r.CumulativeWait / float64(r.CustomersServed)
		r.PercentNoWait = float64(r.ServedWithoutWaiting) / float64(r.CustomersServed) * 100
	}
	for _, st := range s.stations.All() {
		r.Stations = append(r.Stations, StationStats{
			ID:              st.ID,
			Efficiency:      st.Efficiency,
			CustomersServed: st.CustomersServed,
			BusyTime:        st.BusyTime,
			IdleTime:        r.TotalElapsed - st.BusyTime,
		})
	}
	return r
}
