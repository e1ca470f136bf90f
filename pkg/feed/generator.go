package feed

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sherine-k/checkoutsim/pkg/config"
	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

// Generator produces a synthetic arrival feed from cron-scheduled waves
type Generator struct {
	cfg    *config.GeneratorConfig
	parser cron.Parser
	rng    *rand.Rand
}

// NewGenerator creates a generator. The same config always yields the same feed.
func NewGenerator(cfg *config.GeneratorConfig) *Generator {
	return &Generator{
		cfg:    cfg,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate returns every arrival of every wave, sorted by arrival time
func (g *Generator) Generate() ([]simulation.Arrival, error) {
	var arrivals []simulation.Arrival
	for i := range g.cfg.Waves {
		wave := &g.cfg.Waves[i]
		waveArrivals, err := g.generateWave(wave)
		if err != nil {
			return nil, err
		}
		arrivals = append(arrivals, waveArrivals...)
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].Time < arrivals[j].Time
	})
	return arrivals, nil
}

// FiringTimes returns the times a wave's schedule fires inside the window
func (g *Generator) FiringTimes(wave *config.Wave) ([]time.Time, error) {
	schedule, err := g.parser.Parse(wave.CronSchedule)
	if err != nil {
		return nil, fmt.Errorf("wave %s: failed to parse cron schedule: %w", wave.Name, err)
	}

	start := g.cfg.Start
	end := start.Add(g.cfg.Duration)
	var times []time.Time
	// Next is strictly after its argument; step back so start itself can fire.
	current := start.Add(-time.Nanosecond)
	for {
		next := schedule.Next(current)
		if next.IsZero() || !next.Before(end) {
			break
		}
		times = append(times, next)
		current = next
	}
	return times, nil
}

func (g *Generator) generateWave(wave *config.Wave) ([]simulation.Arrival, error) {
	times, err := g.FiringTimes(wave)
	if err != nil {
		return nil, err
	}

	perFiring := wave.CustomersPerFiring()
	arrivals := make([]simulation.Arrival, 0, len(times)*perFiring)
	for _, fired := range times {
		for c := 0; c < perFiring; c++ {
			at := fired
			if wave.Spread > 0 {
				at = at.Add(time.Duration(g.rng.Int63n(int64(wave.Spread))))
			}
			demand := wave.DemandMin
			if wave.DemandMax > wave.DemandMin {
				demand += g.rng.Float64() * (wave.DemandMax - wave.DemandMin)
			}
			payment := simulation.Card
			if g.rng.Float64() < wave.CashRatio {
				payment = simulation.Cash
			}
			arrivals = append(arrivals, simulation.Arrival{
				Time:    g.units(at),
				Demand:  demand,
				Payment: payment,
			})
		}
	}
	return arrivals, nil
}

// units converts a wall time into simulation time units since Start
func (g *Generator) units(t time.Time) float64 {
	return float64(t.Sub(g.cfg.Start)) / float64(g.cfg.TimeUnit)
}
