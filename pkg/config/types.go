package config

import (
	"time"
)

// Config represents the entire configuration for the checkout simulator
type Config struct {
	// Stations lists the checkouts in id order. When empty, the input feed
	// must start with a station header.
	Stations []Station `yaml:"stations"`

	// Input is the path to an arrival feed. Ignored when empty and a
	// generator is configured.
	Input string `yaml:"input,omitempty"`

	Surcharge Surcharge        `yaml:"surcharge"`
	Limits    Limits           `yaml:"limits"`
	LogLevel  string           `yaml:"logLevel"`
	Generator *GeneratorConfig `yaml:"generator,omitempty"`
}

// Station represents a single checkout
type Station struct {
	Name       string  `yaml:"name,omitempty"`
	Efficiency float64 `yaml:"efficiency"`
}

// Surcharge holds the fixed handling time per payment kind
type Surcharge struct {
	Cash *float64 `yaml:"cash,omitempty"`
	Card *float64 `yaml:"card,omitempty"`
}

// Limits are optional hard caps; zero means unbounded
type Limits struct {
	MaxEvents   int `yaml:"maxEvents"`
	MaxWaiting  int `yaml:"maxWaiting"`
	MaxStations int `yaml:"maxStations"`
}

// GeneratorConfig describes a synthetic arrival feed
type GeneratorConfig struct {
	Start    time.Time     `yaml:"start"`
	Duration time.Duration `yaml:"duration"`
	TimeUnit time.Duration `yaml:"timeUnit"` // wall duration of one simulation time unit
	Seed     int64         `yaml:"seed"`
	Waves    []Wave        `yaml:"waves"`
}

// Wave is a group of customers arriving on a cron schedule
type Wave struct {
	Name         string        `yaml:"name"`
	CronSchedule string        `yaml:"cronSchedule"`
	Customers    *int          `yaml:"customers,omitempty"` // per firing, 0 disables the wave
	Spread       time.Duration `yaml:"spread"`    // arrivals are jittered within this window
	DemandMin    float64       `yaml:"demandMin"`
	DemandMax    float64       `yaml:"demandMax"`
	CashRatio    float64       `yaml:"cashRatio"`
}

// CustomersPerFiring returns the wave size, 1 when unset
func (w *Wave) CustomersPerFiring() int {
	if w.Customers == nil {
		return 1
	}
	return *w.Customers
}

// Efficiencies returns the station efficiencies in id order
func (c *Config) Efficiencies() []float64 {
	out := make([]float64, len(c.Stations))
	for i, s := range c.Stations {
		out[i] = s.Efficiency
	}
	return out
}
