package simulation

import "fmt"

const initialLineCapacity = 16

// WaitingLine is a FIFO of customers who found every station busy. It is a
// circular buffer that doubles when full, unless a hard limit is set.
type WaitingLine struct {
	buf   []Customer
	front int
	n     int
	limit int

	peak           int
	cumulativeWait float64
}

// NewWaitingLine creates an empty line. A limit of 0 means unbounded.
func NewWaitingLine(limit int) *WaitingLine {
	size := initialLineCapacity
	if limit > 0 && limit < size {
		size = limit
	}
	return &WaitingLine{
		buf:   make([]Customer, size),
		limit: limit,
	}
}

// Enqueue adds a customer at the rear
func (w *WaitingLine) Enqueue(c Customer) error {
	if w.limit > 0 && w.n >= w.limit {
		return fmt.Errorf("waiting line holds %d customers: %w", w.limit, ErrCapacityExceeded)
	}
	if w.n == len(w.buf) {
		w.grow()
	}
	w.buf[(w.front+w.n)%len(w.buf)] = c
	w.n++
	if w.n > w.peak {
		w.peak = w.n
	}
	return nil
}

// Dequeue removes the customer at the front and charges the time they
// spent in line up to now.
func (w *WaitingLine) Dequeue(now float64) (Customer, error) {
	if w.n == 0 {
		return Customer{}, ErrEmptyQueue
	}
	c := w.buf[w.front]
	w.buf[w.front] = Customer{}
	w.front = (w.front + 1) % len(w.buf)
	w.n--
	w.cumulativeWait += now - c.ArrivalTime
	return c, nil
}

func (w *WaitingLine) grow() {
	size := len(w.buf) * 2
	if size == 0 {
		size = initialLineCapacity
	}
	if w.limit > 0 && size > w.limit {
		size = w.limit
	}
	buf := make([]Customer, size)
	for i := 0; i < w.n; i++ {
		buf[i] = w.buf[(w.front+i)%len(w.buf)]
	}
	w.buf = buf
	w.front = 0
}

// Len returns the number of customers in line
func (w *WaitingLine) Len() int { return w.n }

// Peak returns the longest the line has ever been
func (w *WaitingLine) Peak() int { return w.peak }

// CumulativeWait returns the total time dequeued customers spent in line
func (w *WaitingLine) CumulativeWait() float64 { return w.cumulativeWait }
