package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherine-k/checkoutsim/pkg/config"
	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

func customers(n int) *int { return &n }

func testGeneratorConfig() *config.GeneratorConfig {
	return &config.GeneratorConfig{
		Start:    time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
		Duration: 2 * time.Hour,
		TimeUnit: time.Minute,
		Seed:     7,
		Waves: []config.Wave{
			{
				Name:         "steady",
				CronSchedule: "*/30 * * * *",
				Customers:    customers(2),
				Spread:       10 * time.Minute,
				DemandMin:    1,
				DemandMax:    5,
				CashRatio:    0.5,
			},
			{
				Name:         "lunch",
				CronSchedule: "0 9 * * *",
				Customers:    customers(5),
				DemandMin:    2,
				DemandMax:    2,
				CashRatio:    1,
			},
		},
	}
}

func TestFiringTimesIncludeStartExcludeEnd(t *testing.T) {
	cfg := testGeneratorConfig()
	g := NewGenerator(cfg)

	times, err := g.FiringTimes(&cfg.Waves[0])
	require.NoError(t, err)
	require.Len(t, times, 4)
	assert.Equal(t, cfg.Start, times[0])
	assert.Equal(t, cfg.Start.Add(90*time.Minute), times[3])
}

func TestGenerate(t *testing.T) {
	cfg := testGeneratorConfig()
	arrivals, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)
	require.Len(t, arrivals, 4*2+5)

	lunch := 0
	for i, a := range arrivals {
		if i > 0 {
			assert.GreaterOrEqual(t, a.Time, arrivals[i-1].Time)
		}
		assert.GreaterOrEqual(t, a.Demand, 1.0)
		assert.LessOrEqual(t, a.Demand, 5.0)
		if a.Time == 60 {
			lunch++
			assert.Equal(t, simulation.Cash, a.Payment)
		}
	}
	assert.GreaterOrEqual(t, lunch, 5)
}

func TestGenerateWaveSizes(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.Waves[0].Customers = customers(0)
	cfg.Waves[1].Customers = nil

	arrivals, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, 60.0, arrivals[0].Time)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a1, err := NewGenerator(testGeneratorConfig()).Generate()
	require.NoError(t, err)
	a2, err := NewGenerator(testGeneratorConfig()).Generate()
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	other := testGeneratorConfig()
	other.Seed = 8
	a3, err := NewGenerator(other).Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a1, a3)
}

func TestGenerateBadSchedule(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.Waves[1].CronSchedule = "every tuesday"
	_, err := NewGenerator(cfg).Generate()
	assert.ErrorContains(t, err, "lunch")
}
