// Package trace provides an append-only JSON-lines log of simulation steps.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

// Writer writes steps as JSON lines. It implements simulation.Observer.
type Writer struct {
	closer io.Closer
	writer *bufio.Writer
	count  uint64
}

// NewWriter wraps w. Close flushes, and also closes w if it is an io.Closer.
func NewWriter(w io.Writer) *Writer {
	tw := &Writer{writer: bufio.NewWriterSize(w, 64*1024)}
	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}
	return tw
}

// Create opens a trace file at path
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	return NewWriter(f), nil
}

// Observe appends a step to the log
func (w *Writer) Observe(step simulation.Step) error {
	data, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("marshal step: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Close flushes the buffer and closes the underlying file, if any
func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		if w.closer != nil {
			w.closer.Close()
		}
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Count returns the number of steps written
func (w *Writer) Count() uint64 {
	return w.count
}

// Reader reads steps from a JSON-lines trace
type Reader struct {
	closer  io.Closer
	scanner *bufio.Scanner
}

// NewReader wraps r
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	tr := &Reader{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		tr.closer = c
	}
	return tr
}

// Open opens a trace file for reading
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	return NewReader(f), nil
}

// Next reads the next step. Returns io.EOF at end of log.
func (r *Reader) Next() (simulation.Step, error) {
	var step simulation.Step
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return step, err
		}
		return step, io.EOF
	}
	if err := json.Unmarshal(r.scanner.Bytes(), &step); err != nil {
		return step, fmt.Errorf("unmarshal step: %w", err)
	}
	return step, nil
}

// ReadAll reads all remaining steps
func (r *Reader) ReadAll() ([]simulation.Step, error) {
	var steps []simulation.Step
	for {
		s, err := r.Next()
		if err == io.EOF {
			return steps, nil
		}
		if err != nil {
			return steps, err
		}
		steps = append(steps, s)
	}
}

// Close closes the underlying file, if any
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
