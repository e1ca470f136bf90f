package feed

import (
	"bufio"
	"io"
	"strconv"

	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

// Writer emits a feed in the format Reader parses
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter creates a writer on top of w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the station count and efficiencies
func (w *Writer) WriteHeader(efficiencies []float64) error {
	if _, err := w.w.WriteString(strconv.Itoa(len(efficiencies)) + "\n"); err != nil {
		return err
	}
	for _, eff := range efficiencies {
		if _, err := w.w.WriteString(formatFloat(eff) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write appends one arrival record
func (w *Writer) Write(a simulation.Arrival) error {
	line := formatFloat(a.Time) + " " + formatFloat(a.Demand) + " " + a.Payment.String() + "\n"
	if _, err := w.w.WriteString(line); err != nil {
		return err
	}
	w.count++
	return nil
}

// Flush writes any buffered data
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Count returns the number of records written
func (w *Writer) Count() int {
	return w.count
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
