package emissions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/emission/pkg/units"
)

func TestOf(t *testing.T) {
	e := units.EnergyFromKilowattHours(10)
	i := units.IntensityFromGramsPerKilowattHour(400)
	assert.InDelta(t, 4.0, Of(e, i).Kilograms(), 1e-12)

	// 1 MWh at 1000 lb/MWh is 1000 lb of CO2
	mwh := units.EnergyFromKilowattHours(1000)
	lb := units.IntensityFromPoundsPerMegawattHour(1000)
	assert.InDelta(t, 453.59237, Of(mwh, lb).Kilograms(), 1e-9)
}

func TestTracker(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tr := NewTracker(units.IntensityFromKilogramsPerKilowattHour(0.5), start)

	e := tr.Record(units.PowerFromKilowatts(2), units.TimeFromSeconds(1800))
	assert.Equal(t, 1.0, e.KilowattHours())
	tr.Add(units.EnergyFromKilowattHours(0.5), units.TimeFromSeconds(900))

	assert.Equal(t, 1.5, tr.Energy().KilowattHours())
	assert.Equal(t, 2700.0, tr.Duration().Seconds())
	assert.Equal(t, 2, tr.Samples())
	assert.Equal(t, 0.75, tr.Emissions().Kilograms())

	r := tr.Report(Labels{ExperimentID: "exp-1", ProjectID: "proj-9", Region: "FR"})
	assert.NotEqual(t, uuid.Nil, r.RunID)
	assert.Equal(t, "exp-1", r.ExperimentID)
	assert.Equal(t, "proj-9", r.ProjectID)
	assert.Equal(t, "FR", r.Region)
	assert.Equal(t, start, r.StartedAt)
	assert.Equal(t, 1.5, r.EnergyKWh)
	assert.Equal(t, 0.5, r.IntensityKgPerKWh)
	assert.Equal(t, 0.75, r.EmissionsKg)
	assert.Equal(t, 2700.0, r.DurationSec)

	assert.NotEqual(t, r.RunID, tr.Report(Labels{}).RunID, "each report gets its own run id")
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(units.IntensityFromGramsPerKilowattHour(100), time.Now())

	const goroutines, each = 8, 250
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				tr.Record(units.PowerFromWatts(36), units.TimeFromSeconds(100)) // 0.001 kWh
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*each, tr.Samples())
	assert.InDelta(t, float64(goroutines*each)*0.001, tr.Energy().KilowattHours(), 1e-9)
}

func readings(n int) []Reading {
	out := make([]Reading, n)
	for i := range out {
		out[i] = Reading{
			Power:    units.PowerFromMilliwatts(float64(1000 + 37*i)),
			Interval: units.TimeFromSeconds(float64(1 + i%7)),
		}
	}
	return out
}

func TestTotal_MatchesSequentialFold(t *testing.T) {
	rs := readings(1001)

	var seq units.Energy
	for _, r := range rs {
		seq = seq.Plus(r.Energy())
	}

	for _, workers := range []int{1, 2, 3, 8, 64, 5000} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			got, err := Total(context.Background(), rs, workers)
			require.NoError(t, err)
			assert.InDelta(t, seq.KilowattHours(), got.KilowattHours(), 1e-12)
		})
	}
}

func TestTotal_OneWorkerIsExact(t *testing.T) {
	rs := readings(50)
	es := make([]units.Energy, len(rs))
	for i, r := range rs {
		es[i] = r.Energy()
	}
	got, err := Total(context.Background(), rs, 1)
	require.NoError(t, err)
	assert.Equal(t, units.SumEnergy(es...), got)
}

func TestTotal_Errors(t *testing.T) {
	_, err := Total(context.Background(), nil, 4)
	assert.True(t, errors.Is(err, ErrNoReadings))

	_, err = Total(context.Background(), readings(3), 0)
	assert.True(t, errors.Is(err, ErrBadWorkers))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Total(ctx, readings(100), 4)
	assert.ErrorIs(t, err, context.Canceled)
}
