package emissions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ja7ad/emission/pkg/units"
)

// Tracker keeps the running energy of one measurement run.
// It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	intensity units.EmissionIntensity
	energy    units.Energy
	seconds   float64
	samples   int
	started   time.Time
}

// NewTracker starts a run at now, priced at intensity.
func NewTracker(intensity units.EmissionIntensity, now time.Time) *Tracker {
	return &Tracker{intensity: intensity, started: now}
}

// Record adds p held for t and returns the energy of that interval.
func (tr *Tracker) Record(p units.Power, t units.Time) units.Energy {
	e := units.EnergyFromPowerAndTime(p, t)
	tr.mu.Lock()
	tr.energy = tr.energy.Plus(e)
	tr.seconds += t.Seconds()
	tr.samples++
	tr.mu.Unlock()
	return e
}

// Add folds an already integrated reading over t.
func (tr *Tracker) Add(e units.Energy, t units.Time) {
	tr.mu.Lock()
	tr.energy = tr.energy.Plus(e)
	tr.seconds += t.Seconds()
	tr.samples++
	tr.mu.Unlock()
}

// Energy returns the running total.
func (tr *Tracker) Energy() units.Energy {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.energy
}

// Duration returns the summed interval length.
func (tr *Tracker) Duration() units.Time {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return units.TimeFromSeconds(tr.seconds)
}

// Samples returns the number of recorded intervals.
func (tr *Tracker) Samples() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.samples
}

// Intensity returns the factor the run is priced at.
func (tr *Tracker) Intensity() units.EmissionIntensity { return tr.intensity }

// Emissions prices the running total.
func (tr *Tracker) Emissions() units.Mass { return Of(tr.Energy(), tr.intensity) }

// Report is the record handed to the experiment-tracking service. The
// experiment and project identifiers are opaque to this package.
type Report struct {
	RunID             uuid.UUID `json:"run_id"`
	ExperimentID      string    `json:"experiment_id,omitempty"`
	ProjectID         string    `json:"project_id,omitempty"`
	Region            string    `json:"region,omitempty"`
	StartedAt         time.Time `json:"started_at"`
	DurationSec       float64   `json:"duration_sec"`
	Samples           int       `json:"samples"`
	EnergyKWh         float64   `json:"energy_kwh"`
	IntensityKgPerKWh float64   `json:"intensity_kg_per_kwh"`
	EmissionsKg       float64   `json:"emissions_kg"`
}

// Labels tag a Report.
type Labels struct {
	ExperimentID string
	ProjectID    string
	Region       string
}

// Report snapshots the tracker under a fresh run ID.
func (tr *Tracker) Report(l Labels) Report {
	tr.mu.Lock()
	energy, seconds, samples := tr.energy, tr.seconds, tr.samples
	tr.mu.Unlock()

	return Report{
		RunID:             uuid.New(),
		ExperimentID:      l.ExperimentID,
		ProjectID:         l.ProjectID,
		Region:            l.Region,
		StartedAt:         tr.started,
		DurationSec:       seconds,
		Samples:           samples,
		EnergyKWh:         energy.KilowattHours(),
		IntensityKgPerKWh: tr.intensity.KilogramsPerKilowattHour(),
		EmissionsKg:       Of(energy, tr.intensity).Kilograms(),
	}
}
