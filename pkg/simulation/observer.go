package simulation

// Step describes what a single processed event did
type Step struct {
	Seq       uint64    `json:"seq"`
	Time      float64   `json:"time"`
	Kind      EventKind `json:"kind"`
	StationID int       `json:"station"` // -1 when an arrival joined the line

	// Customer fields for arrivals, or for the waiting customer a finish pulled in
	Demand  float64 `json:"demand,omitempty"`
	Payment string  `json:"payment,omitempty"`
	Waited  float64 `json:"waited,omitempty"`

	// Service started by this event, if any
	ServedBy    int     `json:"served_by"` // -1 when nobody started service
	ServiceTime float64 `json:"service_time,omitempty"`
	FinishAt    float64 `json:"finish_at,omitempty"`

	WaitingLen int `json:"waiting"`
	Busy       int `json:"busy"`
}

// Observer is notified after every processed event. A non-nil error
// aborts the run.
type Observer interface {
	Observe(Step) error
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Step) error

func (f ObserverFunc) Observe(s Step) error { return f(s) }

// Recorder keeps every step in memory
type Recorder struct {
	steps []Step
}

// Observe appends the step
func (r *Recorder) Observe(s Step) error {
	r.steps = append(r.steps, s)
	return nil
}

// Steps returns the recorded steps in processing order
func (r *Recorder) Steps() []Step {
	return r.steps
}

// TimePoint is the system state right after an event
type TimePoint struct {
	Time    float64
	Waiting int
	Busy    int
}
