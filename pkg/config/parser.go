package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCashSurcharge = 0.3
	DefaultCardSurcharge = 0.7
	DefaultLogLevel      = "info"
	DefaultSeed          = 42
	DefaultTimeUnit      = time.Minute
)

// DefaultStart is the generator start when none is configured (a Monday)
var DefaultStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

// LoadConfig loads and parses the configuration file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a configuration with every default applied and no stations
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	if config.Surcharge.Cash == nil {
		v := DefaultCashSurcharge
		config.Surcharge.Cash = &v
	}
	if config.Surcharge.Card == nil {
		v := DefaultCardSurcharge
		config.Surcharge.Card = &v
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}

	if g := config.Generator; g != nil {
		if g.Start.IsZero() {
			g.Start = DefaultStart
		}
		if g.TimeUnit == 0 {
			g.TimeUnit = DefaultTimeUnit
		}
		if g.Seed == 0 {
			g.Seed = DefaultSeed
		}
		for i := range g.Waves {
			if g.Waves[i].Customers == nil {
				n := 1
				g.Waves[i].Customers = &n
			}
		}
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	for i, s := range config.Stations {
		if math.IsNaN(s.Efficiency) || math.IsInf(s.Efficiency, 0) || s.Efficiency <= 0 {
			return fmt.Errorf("station %d: efficiency must be greater than 0", i)
		}
	}

	if *config.Surcharge.Cash < 0 || *config.Surcharge.Card < 0 {
		return fmt.Errorf("surcharges must not be negative")
	}

	if config.Limits.MaxEvents < 0 || config.Limits.MaxWaiting < 0 || config.Limits.MaxStations < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if config.Limits.MaxStations > 0 && len(config.Stations) > config.Limits.MaxStations {
		return fmt.Errorf("%d stations configured but maxStations is %d", len(config.Stations), config.Limits.MaxStations)
	}

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}

	if config.Generator != nil {
		if err := validateGenerator(config.Generator); err != nil {
			return fmt.Errorf("generator: %w", err)
		}
	}

	return nil
}

func validateGenerator(g *GeneratorConfig) error {
	if g.Duration <= 0 {
		return fmt.Errorf("duration must be greater than 0")
	}
	if g.TimeUnit <= 0 {
		return fmt.Errorf("timeUnit must be greater than 0")
	}
	if len(g.Waves) == 0 {
		return fmt.Errorf("at least one wave must be defined")
	}

	for i, wave := range g.Waves {
		if wave.Name == "" {
			return fmt.Errorf("wave %d: name is required", i)
		}
		if wave.CronSchedule == "" {
			return fmt.Errorf("wave %s: cronSchedule is required", wave.Name)
		}
		if wave.CustomersPerFiring() < 0 {
			return fmt.Errorf("wave %s: customers must not be negative", wave.Name)
		}
		if wave.Spread < 0 {
			return fmt.Errorf("wave %s: spread must not be negative", wave.Name)
		}
		if wave.DemandMin < 0 || wave.DemandMax < wave.DemandMin {
			return fmt.Errorf("wave %s: demand range [%v, %v] is invalid", wave.Name, wave.DemandMin, wave.DemandMax)
		}
		if wave.CashRatio < 0 || wave.CashRatio > 1 {
			return fmt.Errorf("wave %s: cashRatio must be between 0 and 1", wave.Name)
		}
	}

	return nil
}
