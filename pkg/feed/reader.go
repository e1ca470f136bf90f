// Package feed reads and writes arrival feeds and generates synthetic ones.
//
// A feed is whitespace separated text. An optional header gives the station
// count followed by one efficiency per station; every following record is
// "<arrivalTime> <serviceDemand> <cash|card>".
package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

// ParseError locates a malformed token in a feed
type ParseError struct {
	Record int    // 0-based record index, -1 for the header
	Field  string // name of the offending field
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("header %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("record %d %s: %v", e.Record, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader pulls arrival records from a text feed. It implements
// simulation.Source.
type Reader struct {
	scanner *bufio.Scanner
	record  int
}

// NewReader creates a reader over r
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &Reader{scanner: scanner}
}

func (r *Reader) token() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// field reads a token that must be present
func (r *Reader) field(record int, name string) (string, error) {
	tok, err := r.token()
	if err == io.EOF {
		return "", &ParseError{Record: record, Field: name, Err: io.ErrUnexpectedEOF}
	}
	if err != nil {
		return "", &ParseError{Record: record, Field: name, Err: err}
	}
	return tok, nil
}

func (r *Reader) float(record int, name string) (float64, error) {
	tok, err := r.field(record, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ParseError{Record: record, Field: name, Err: err}
	}
	return v, nil
}

// ReadHeader reads the station count and efficiencies. It must be called
// before the first Next when the feed carries a header.
func (r *Reader) ReadHeader() ([]float64, error) {
	tok, err := r.field(-1, "station count")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, &ParseError{Record: -1, Field: "station count", Err: err}
	}
	if n <= 0 {
		return nil, &ParseError{Record: -1, Field: "station count", Err: fmt.Errorf("must be positive, got %d", n)}
	}
	efficiencies := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("efficiency %d", i)
		eff, err := r.float(-1, name)
		if err != nil {
			return nil, err
		}
		if !finite(eff) || eff <= 0 {
			return nil, &ParseError{Record: -1, Field: name, Err: fmt.Errorf("must be a positive number, got %v", eff)}
		}
		efficiencies = append(efficiencies, eff)
	}
	return efficiencies, nil
}

// Next returns the next arrival, or io.EOF at a clean end of feed
func (r *Reader) Next() (simulation.Arrival, error) {
	tok, err := r.token()
	if err == io.EOF {
		return simulation.Arrival{}, io.EOF
	}
	if err != nil {
		return simulation.Arrival{}, &ParseError{Record: r.record, Field: "arrival time", Err: err}
	}
	idx := r.record
	r.record++

	t, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return simulation.Arrival{}, &ParseError{Record: idx, Field: "arrival time", Err: err}
	}
	if !finite(t) {
		return simulation.Arrival{}, &ParseError{Record: idx, Field: "arrival time", Err: fmt.Errorf("must be finite, got %v", t)}
	}
	demand, err := r.float(idx, "service demand")
	if err != nil {
		return simulation.Arrival{}, err
	}
	if !finite(demand) || demand < 0 {
		return simulation.Arrival{}, &ParseError{Record: idx, Field: "service demand", Err: fmt.Errorf("must be a non-negative number, got %v", demand)}
	}
	kind, err := r.field(idx, "payment")
	if err != nil {
		return simulation.Arrival{}, err
	}
	p, err := simulation.ParsePayment(kind)
	if err != nil {
		return simulation.Arrival{}, &ParseError{Record: idx, Field: "payment", Err: err}
	}
	return simulation.Arrival{Time: t, Demand: demand, Payment: p}, nil
}

// finite reports whether v is neither NaN nor an infinity.
// strconv.ParseFloat accepts both spellings.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ReadAll drains the reader and checks that arrival times never decrease
func (r *Reader) ReadAll() ([]simulation.Arrival, error) {
	var records []simulation.Arrival
	for {
		a, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if n := len(records); n > 0 && a.Time < records[n-1].Time {
			return nil, &ParseError{
				Record: n,
				Field:  "arrival time",
				Err:    fmt.Errorf("%v is before previous arrival %v", a.Time, records[n-1].Time),
			}
		}
		records = append(records, a)
	}
}

// File is a fully loaded feed
type File struct {
	Efficiencies []float64 // nil when the feed has no header
	Arrivals     []simulation.Arrival
}

// LoadFile reads a feed from disk. withHeader selects whether the file
// starts with the station header.
func LoadFile(path string, withHeader bool) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	r := NewReader(f)
	out := &File{}
	if withHeader {
		if out.Efficiencies, err = r.ReadHeader(); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if out.Arrivals, err = r.ReadAll(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, nil
}
