// Package emissions turns accumulated energy into an estimate of emitted CO2.
//
// A Tracker folds per-interval energy readings into a running total and
// applies an EmissionIntensity to it. Total does the same fold in parallel
// for a batch of readings.
package emissions

import (
	"errors"

	"github.com/ja7ad/emission/pkg/units"
)

var (
	// ErrNoReadings is returned by Total for an empty batch.
	ErrNoReadings = errors.New("emissions: no readings")

	// ErrBadWorkers is returned by Total for a non-positive worker count.
	ErrBadWorkers = errors.New("emissions: workers must be > 0")
)

// Of returns the CO2 mass emitted by e at intensity i.
func Of(e units.Energy, i units.EmissionIntensity) units.Mass {
	return units.MassFromKilograms(e.KilowattHours() * i.KilogramsPerKilowattHour())
}

// Reading is one measurement interval: a constant draw held for a duration.
type Reading struct {
	Power    units.Power
	Interval units.Time
}

// Energy integrates the reading.
func (r Reading) Energy() units.Energy {
	return units.EnergyFromPowerAndTime(r.Power, r.Interval)
}
