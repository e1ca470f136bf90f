// Package report renders simulation results as text, ASCII charts and CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

const (
	chartWidth  = 80
	chartHeight = 20
	columnWidth = 12
)

// Generator renders reports
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new report generator
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

// num formats a float with six significant digits
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// GenerateSummary renders the run-level statistics
func (g *Generator) GenerateSummary(res *simulation.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Number of customers served: %d\n", res.CustomersServed))
	sb.WriteString(fmt.Sprintf("Time taken to serve all customers: %s\n", num(res.TotalElapsed)))
	sb.WriteString(fmt.Sprintf("Greatest length reached by the customer queue: %d\n", res.PeakWaiting))
	sb.WriteString(fmt.Sprintf("Average length of the customer queue: %s\n", num(res.AvgWaitingLength)))
	sb.WriteString(fmt.Sprintf("Average customer waiting time in queue: %s\n", num(res.AvgWait)))
	sb.WriteString(fmt.Sprintf("Percentage of customers with zero waiting time: %s%%\n", num(res.PercentNoWait)))

	return sb.String()
}

// GenerateStationTable renders one fixed-width row per station
func (g *Generator) GenerateStationTable(res *simulation.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-*s%-*s%-*s%-*s\n",
		columnWidth, "Server",
		columnWidth, "Efficiency",
		columnWidth, "Customers",
		columnWidth, "Idle Time"))
	for _, st := range res.Stations {
		sb.WriteString(fmt.Sprintf("%-*d%-*s%-*d%-*s\n",
			columnWidth, st.ID,
			columnWidth, num(st.Efficiency),
			columnWidth, st.CustomersServed,
			columnWidth, num(st.IdleTime)))
	}

	return sb.String()
}

// GenerateQueueChart renders busy stations and waiting customers over
// simulated time. Each column shows the state at an evenly spaced instant.
func (g *Generator) GenerateQueueChart(points []simulation.TimePoint, stations int) string {
	if len(points) == 0 {
		return "No data to display"
	}

	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Checkout Usage Over Time\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	plotWidth := g.width - 6
	first := points[0].Time
	last := points[len(points)-1].Time

	// Sample the state in effect at each column's instant
	columns := make([]simulation.TimePoint, plotWidth)
	for x := range columns {
		t := first
		if plotWidth > 1 {
			t = first + (last-first)*float64(x)/float64(plotWidth-1)
		}
		i := sort.Search(len(points), func(i int) bool { return points[i].Time > t }) - 1
		if i < 0 {
			i = 0
		}
		columns[x] = points[i]
	}

	maxWaiting := 0
	for _, p := range points {
		if p.Waiting > maxWaiting {
			maxWaiting = p.Waiting
		}
	}

	// Waiting rows are scaled so the chart keeps a bounded height
	perRow := 1
	waitingRows := maxWaiting
	if waitingRows > g.height {
		perRow = (maxWaiting + g.height - 1) / g.height
		waitingRows = (maxWaiting + perRow - 1) / perRow
	}

	for row := waitingRows; row >= 1; row-- {
		sb.WriteString(fmt.Sprintf("%3d |", row*perRow))
		for _, c := range columns {
			if c.Waiting >= (row-1)*perRow+1 {
				sb.WriteString("*")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	if waitingRows > 0 {
		sb.WriteString("    ")
		sb.WriteString(strings.Repeat("-", g.width-4))
		sb.WriteString("\n")
	}

	for slot := stations; slot >= 1; slot-- {
		sb.WriteString(fmt.Sprintf("%3d |", slot))
		for _, c := range columns {
			if c.Busy >= slot {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("    +")
	sb.WriteString(strings.Repeat("-", plotWidth))
	sb.WriteString("\n")

	// X-axis labels at the start, middle and end of the run
	labelLine := []rune(strings.Repeat(" ", plotWidth))
	place := func(pos int, label string) {
		if pos+len(label) > plotWidth {
			pos = plotWidth - len(label)
		}
		if pos < 0 {
			return
		}
		for i, ch := range label {
			labelLine[pos+i] = ch
		}
	}
	place(0, num(first))
	place(plotWidth/2-2, num((first+last)/2))
	place(plotWidth, num(last))
	sb.WriteString("     ")
	sb.WriteString(string(labelLine))
	sb.WriteString("\n")

	sb.WriteString("\n")
	sb.WriteString("Legend:\n")
	sb.WriteString(fmt.Sprintf("  Station rows (1-%d):\n", stations))
	sb.WriteString("    █ - Busy station\n")
	sb.WriteString("    (space) - Idle station\n")
	if waitingRows > 0 {
		sb.WriteString(fmt.Sprintf("  Waiting rows (%d customer(s) per row):\n", perRow))
		sb.WriteString("    * - Customers in the waiting line\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateEventSummary counts processed events by outcome
func (g *Generator) GenerateEventSummary(steps []simulation.Step) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	var served, queued, finished, pulled int
	for _, s := range steps {
		switch {
		case s.Kind == simulation.KindArrival && s.ServedBy >= 0:
			served++
		case s.Kind == simulation.KindArrival:
			queued++
		case s.ServedBy >= 0:
			finished++
			pulled++
		default:
			finished++
		}
	}

	sb.WriteString(fmt.Sprintf("Total Events: %d\n", len(steps)))
	sb.WriteString(fmt.Sprintf("  - Arrivals Served Immediately: %d\n", served))
	sb.WriteString(fmt.Sprintf("  - Arrivals Joining the Line: %d\n", queued))
	sb.WriteString(fmt.Sprintf("  - Services Finished: %d\n", finished))
	sb.WriteString(fmt.Sprintf("  - Waiting Customers Called: %d\n", pulled))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateTimeline renders a detailed list of processed events
func (g *Generator) GenerateTimeline(steps []simulation.Step, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Timeline")
	if limit > 0 && limit < len(steps) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(steps)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		sb.WriteString(describe(steps[i]))
		sb.WriteString("\n")
	}

	if limit > 0 && limit < len(steps) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(steps)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}

func describe(s simulation.Step) string {
	var msg string
	switch s.Kind {
	case simulation.KindArrival:
		if s.ServedBy >= 0 {
			msg = fmt.Sprintf("+ %s customer (demand %s) served by station %d until %s",
				s.Payment, num(s.Demand), s.ServedBy, num(s.FinishAt))
		} else {
			msg = fmt.Sprintf("W %s customer (demand %s) joins the line", s.Payment, num(s.Demand))
		}
	case simulation.KindFinish:
		msg = fmt.Sprintf("- station %d finished", s.StationID)
		if s.ServedBy >= 0 {
			msg += fmt.Sprintf(", station %d takes next customer after %s waiting until %s",
				s.ServedBy, num(s.Waited), num(s.FinishAt))
		}
	}
	return fmt.Sprintf("[%10s] [busy %d, waiting %d] %s", num(s.Time), s.Busy, s.WaitingLen, msg)
}

// WriteStationsCSV writes per-station statistics to a CSV file
func WriteStationsCSV(path string, res *simulation.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"station", "efficiency", "customers_served", "busy_time", "idle_time"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, st := range res.Stations {
		row := []string{
			strconv.Itoa(st.ID),
			strconv.FormatFloat(st.Efficiency, 'f', -1, 64),
			strconv.Itoa(st.CustomersServed),
			strconv.FormatFloat(st.BusyTime, 'f', -1, 64),
			strconv.FormatFloat(st.IdleTime, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
