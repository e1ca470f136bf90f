package simulation

import (
	"fmt"
	"strings"
)

// Payment is how a customer settles at the checkout
type Payment int

const (
	Cash Payment = iota
	Card
)

// String returns the feed spelling of the payment kind
func (p Payment) String() string {
	switch p {
	case Cash:
		return "cash"
	case Card:
		return "card"
	default:
		return "unknown"
	}
}

// ParsePayment converts "cash" or "card" (any case) into a Payment
func ParsePayment(s string) (Payment, error) {
	switch strings.ToLower(s) {
	case "cash":
		return Cash, nil
	case "card":
		return Card, nil
	default:
		return 0, fmt.Errorf("unknown payment kind %q", s)
	}
}

// MarshalText lets payments appear as words in JSON traces
func (p Payment) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText is the inverse of MarshalText
func (p *Payment) UnmarshalText(data []byte) error {
	v, err := ParsePayment(string(data))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Customer is a shopper waiting for a free checkout
type Customer struct {
	ArrivalTime float64
	Demand      float64
	Payment     Payment
}

// EventKind tags the two event cases
type EventKind int

const (
	// Finish sorts ahead of Arrival at equal times, see EventHeap.
	KindFinish EventKind = iota
	KindArrival
)

func (k EventKind) String() string {
	switch k {
	case KindFinish:
		return "finish"
	case KindArrival:
		return "arrival"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as a word
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText
func (k *EventKind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "finish":
		*k = KindFinish
	case "arrival":
		*k = KindArrival
	default:
		return fmt.Errorf("unknown event kind %q", string(data))
	}
	return nil
}

// Event is a scheduled occurrence. The only implementations are Arrival and Finish.
type Event interface {
	At() float64
	Kind() EventKind
	sealed()
}

// Arrival is a customer entering the store
type Arrival struct {
	Time    float64
	Demand  float64
	Payment Payment
}

func (a Arrival) At() float64     { return a.Time }
func (a Arrival) Kind() EventKind { return KindArrival }
func (Arrival) sealed()           {}

// Customer returns the waiting-line entry for this arrival
func (a Arrival) Customer() Customer {
	return Customer{ArrivalTime: a.Time, Demand: a.Demand, Payment: a.Payment}
}

// Finish is a station completing service for its current customer
type Finish struct {
	Time        float64
	StationID   int
	ServiceTime float64
}

func (f Finish) At() float64     { return f.Time }
func (f Finish) Kind() EventKind { return KindFinish }
func (Finish) sealed()           {}
