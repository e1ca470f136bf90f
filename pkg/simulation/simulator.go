// Package simulation implements the checkout discrete-event simulation:
// an event heap, an idle-station heap, a FIFO waiting line and the loop
// that drives them under a single logical clock.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Surcharge is the fixed handling time added per payment kind
type Surcharge struct {
	Cash float64
	Card float64
}

// For returns the handling time for a payment kind
func (s Surcharge) For(p Payment) float64 {
	if p == Cash {
		return s.Cash
	}
	return s.Card
}

// Limits caps container sizes. Zero means unbounded.
type Limits struct {
	MaxEvents   int
	MaxWaiting  int
	MaxStations int
}

// Options configures a Simulator
type Options struct {
	Surcharge       Surcharge
	Limits          Limits
	CheckInvariants bool
	Logger          logrus.FieldLogger
	Observers       []Observer
}

// DefaultSurcharge is 0.3 time units for cash and 0.7 for card
var DefaultSurcharge = Surcharge{Cash: 0.3, Card: 0.7}

// DefaultOptions returns unbounded options with the default surcharges
func DefaultOptions() Options {
	return Options{Surcharge: DefaultSurcharge}
}

// Simulator runs one simulation. It is single use.
type Simulator struct {
	opts Options
	log  logrus.FieldLogger

	events   *EventHeap
	idle     *IdleHeap
	line     *WaitingLine
	stations *Registry

	source      Source
	records     int
	lastArrival float64

	currentTime  float64
	firstArrival float64
	arrivals     int
	busy         int
	served       int
	servedNoWait int
	processed    uint64
	timePoints   []TimePoint
	ran          bool
}

// NewSimulator creates a simulator with one station per efficiency value.
// Station ids follow the order of efficiencies.
func NewSimulator(efficiencies []float64, opts Options) (*Simulator, error) {
	if len(efficiencies) == 0 {
		return nil, ErrNoStations
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := &Simulator{
		opts:     opts,
		log:      log,
		events:   NewEventHeap(opts.Limits.MaxEvents),
		idle:     NewIdleHeap(),
		line:     NewWaitingLine(opts.Limits.MaxWaiting),
		stations: NewRegistry(opts.Limits.MaxStations),
	}
	for _, eff := range efficiencies {
		st, err := s.stations.Add(eff)
		if err != nil {
			return nil, err
		}
		s.idle.Insert(st)
	}
	return s, nil
}

// Run consumes src until the event heap drains and returns the aggregate
// counters. The context is checked between events.
func (s *Simulator) Run(ctx context.Context, src Source) (*Result, error) {
	if s.ran {
		return nil, errors.New("simulator already ran")
	}
	s.ran = true
	s.source = src

	first, err := s.pull()
	if err == io.EOF {
		return nil, ErrNoArrivals
	}
	if err != nil {
		return nil, err
	}
	s.firstArrival = first.Time
	s.currentTime = first.Time
	if err := s.events.Insert(first); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"stations":      s.stations.Len(),
		"first_arrival": first.Time,
	}).Info("simulation started")

	for s.events.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev, err := s.events.PopMin()
		if err != nil {
			panic(fmt.Sprintf("pop with %d pending events: %v", s.events.Len(), err))
		}
		if ev.At() < s.currentTime {
			panic(fmt.Sprintf("clock moved backwards from %v to %v", s.currentTime, ev.At()))
		}
		s.currentTime = ev.At()
		s.processed++

		var step Step
		switch e := ev.(type) {
		case Arrival:
			step, err = s.handleArrival(e)
		case Finish:
			step, err = s.handleFinish(e)
		}
		if err != nil {
			return nil, err
		}

		s.timePoints = append(s.timePoints, TimePoint{
			Time:    s.currentTime,
			Waiting: s.line.Len(),
			Busy:    s.busy,
		})
		step.Seq = s.processed
		step.Time = s.currentTime
		step.WaitingLen = s.line.Len()
		step.Busy = s.busy
		for _, o := range s.opts.Observers {
			if err := o.Observe(step); err != nil {
				return nil, fmt.Errorf("observer at event %d: %w", s.processed, err)
			}
		}

		if s.opts.CheckInvariants {
			if err := s.CheckInvariants(); err != nil {
				panic(fmt.Sprintf("after event %d at %v: %v", s.processed, s.currentTime, err))
			}
		}
	}

	res := newResult(s)
	s.log.WithFields(logrus.Fields{
		"served":  res.CustomersServed,
		"elapsed": res.TotalElapsed,
		"events":  res.EventsProcessed,
		"peak":    res.PeakWaiting,
	}).Info("simulation finished")
	return res, nil
}

// handleArrival serves the customer on the fastest idle station or puts
// them in line, then schedules the next arrival from the feed.
func (s *Simulator) handleArrival(a Arrival) (Step, error) {
	s.arrivals++
	step := Step{
		Kind:      KindArrival,
		StationID: -1,
		ServedBy:  -1,
		Demand:    a.Demand,
		Payment:   a.Payment.String(),
	}

	if st, ok := s.idle.PopFastest(); ok {
		f, err := s.startService(st, a.Customer())
		if err != nil {
			return step, err
		}
		s.servedNoWait++
		step.StationID = st.ID
		step.ServedBy = st.ID
		step.ServiceTime = f.ServiceTime
		step.FinishAt = f.Time
		s.log.WithFields(logrus.Fields{
			"time":    s.currentTime,
			"station": st.ID,
			"finish":  f.Time,
		}).Debug("customer served without waiting")
	} else {
		if err := s.line.Enqueue(a.Customer()); err != nil {
			return step, fmt.Errorf("arrival at %v: %w", a.Time, err)
		}
		s.log.WithFields(logrus.Fields{
			"time":    s.currentTime,
			"waiting": s.line.Len(),
		}).Debug("customer joined waiting line")
	}

	next, err := s.pull()
	switch {
	case err == io.EOF:
		s.log.WithField("time", s.currentTime).Debug("arrival feed exhausted")
	case err != nil:
		return step, err
	default:
		if err := s.events.Insert(next); err != nil {
			return step, fmt.Errorf("schedule arrival at %v: %w", next.Time, err)
		}
	}
	return step, nil
}

// handleFinish frees the station and, if anyone is waiting, starts the
// next customer on the fastest idle station.
func (s *Simulator) handleFinish(f Finish) (Step, error) {
	s.served++
	s.busy--
	s.stations.RecordServiceCompletion(f.StationID)
	st := s.stations.ByID(f.StationID)
	s.idle.Insert(st)

	step := Step{
		Kind:      KindFinish,
		StationID: f.StationID,
		ServedBy:  -1,
	}
	s.log.WithFields(logrus.Fields{
		"time":    s.currentTime,
		"station": f.StationID,
	}).Debug("station finished")

	if s.line.Len() == 0 {
		return step, nil
	}
	c, err := s.line.Dequeue(s.currentTime)
	if err != nil {
		panic(fmt.Sprintf("dequeue from line of length %d: %v", s.line.Len(), err))
	}
	next, ok := s.idle.PopFastest()
	if !ok {
		panic(fmt.Sprintf("no idle station right after station %d finished", f.StationID))
	}
	nf, err := s.startService(next, c)
	if err != nil {
		return step, err
	}
	step.Demand = c.Demand
	step.Payment = c.Payment.String()
	step.Waited = s.currentTime - c.ArrivalTime
	step.ServedBy = next.ID
	step.ServiceTime = nf.ServiceTime
	step.FinishAt = nf.Time
	s.log.WithFields(logrus.Fields{
		"time":    s.currentTime,
		"station": next.ID,
		"waited":  step.Waited,
	}).Debug("waiting customer served")
	return step, nil
}

func (s *Simulator) startService(st *Station, c Customer) (Finish, error) {
	serviceTime := c.Demand*st.Efficiency + s.opts.Surcharge.For(c.Payment)
	s.stations.BeginService(st.ID, serviceTime)
	s.busy++
	f := Finish{
		Time:        s.currentTime + serviceTime,
		StationID:   st.ID,
		ServiceTime: serviceTime,
	}
	if err := s.events.Insert(f); err != nil {
		return f, fmt.Errorf("schedule finish for station %d: %w", st.ID, err)
	}
	return f, nil
}

// pull reads and validates the next record from the feed
func (s *Simulator) pull() (Arrival, error) {
	a, err := s.source.Next()
	if err == io.EOF {
		return a, err
	}
	idx := s.records
	s.records++
	if err != nil {
		var re *RecordError
		if errors.As(err, &re) {
			return a, err
		}
		return a, &RecordError{Index: idx, Err: err}
	}
	switch {
	case math.IsNaN(a.Time) || math.IsInf(a.Time, 0):
		return a, &RecordError{Index: idx, Err: fmt.Errorf("arrival time %v is not finite", a.Time)}
	case math.IsNaN(a.Demand) || math.IsInf(a.Demand, 0) || a.Demand < 0:
		return a, &RecordError{Index: idx, Err: fmt.Errorf("service demand %v must be a non-negative number", a.Demand)}
	case a.Payment != Cash && a.Payment != Card:
		return a, &RecordError{Index: idx, Err: fmt.Errorf("unknown payment kind %d", a.Payment)}
	case idx > 0 && a.Time < s.lastArrival:
		return a, &RecordError{Index: idx, Err: fmt.Errorf("arrival time %v is before previous arrival %v", a.Time, s.lastArrival)}
	}
	s.lastArrival = a.Time
	return a, nil
}

// CheckInvariants verifies the bookkeeping between the heaps, the line
// and the station counters.
func (s *Simulator) CheckInvariants() error {
	pendingArrivals, finishes := s.events.pending()
	if pendingArrivals > 1 {
		return fmt.Errorf("%d arrivals pending, expected at most 1", pendingArrivals)
	}

	idle, pendingFinishes := 0, 0
	for _, st := range s.stations.All() {
		n := finishes[st.ID]
		pendingFinishes += n
		if n > 1 {
			return fmt.Errorf("station %d has %d pending finish events", st.ID, n)
		}
		if st.idle == (n == 1) {
			return fmt.Errorf("station %d idle=%v with %d pending finish events", st.ID, st.idle, n)
		}
		if st.idle {
			idle++
		}
	}
	if idle != s.idle.Len() {
		return fmt.Errorf("%d stations flagged idle but idle heap holds %d", idle, s.idle.Len())
	}
	if pendingFinishes != s.busy {
		return fmt.Errorf("%d pending finish events for %d busy stations", pendingFinishes, s.busy)
	}
	if got := s.line.Len() + s.busy + s.served; got != s.arrivals {
		return fmt.Errorf("waiting %d + busy %d + served %d != arrivals %d",
			s.line.Len(), s.busy, s.served, s.arrivals)
	}
	return nil
}

// CurrentTime returns the logical clock
func (s *Simulator) CurrentTime() float64 { return s.currentTime }

// EventsProcessed returns the number of events popped so far
func (s *Simulator) EventsProcessed() uint64 { return s.processed }

// Stations returns the station registry
func (s *Simulator) Stations() *Registry { return s.stations }

// TimePoints returns the state snapshot taken after every event
func (s *Simulator) TimePoints() []TimePoint { return s.timePoints }
