//go:build linux

package consumption

import (
	"math"

	"github.com/ja7ad/emission/pkg/system/proc"
	"github.com/ja7ad/emission/pkg/system/util"
	"github.com/ja7ad/emission/pkg/units"
)

// minInterval keeps per-byte energy from blowing up on a zero-length window.
const minInterval = 1e-6

// Accumulator turns snapshots into power and keeps the running energy.
type Accumulator struct {
	cfg    Config
	energy units.Energy
	count  int
	sum    struct{ cpu, disk, ram, idle, total float64 } // watts
}

// New creates an accumulator. Fields of cfg override the defaults when valid:
//   - PIdle/PMax/Gamma/ER/EW must be > 0.
//   - EMemRef/EMemRSS: zero disables, negative means unset.
//   - Alpha must be in [0..1]; 0 means no idle share.
//
// PMax is raised to PIdle if it ends up lower.
func New(cfg *Config) *Accumulator {
	merged := DefaultConfig()
	if cfg == nil {
		return &Accumulator{cfg: merged}
	}

	for _, f := range []struct {
		dst *float64
		v   float64
	}{
		{&merged.PIdle, cfg.PIdle},
		{&merged.PMax, cfg.PMax},
		{&merged.Gamma, cfg.Gamma},
		{&merged.ER, cfg.ER},
		{&merged.EW, cfg.EW},
	} {
		if f.v > 0 {
			*f.dst = f.v
		}
	}
	if cfg.EMemRef >= 0 {
		merged.EMemRef = cfg.EMemRef
	}
	if cfg.EMemRSS >= 0 {
		merged.EMemRSS = cfg.EMemRSS
	}
	if cfg.Alpha >= 0 && cfg.Alpha <= 1 {
		merged.Alpha = cfg.Alpha
	}
	if merged.PMax < merged.PIdle {
		merged.PMax = merged.PIdle
	}
	return &Accumulator{cfg: merged}
}

// Config returns the merged coefficients in use.
func (a *Accumulator) Config() Config { return a.cfg }

// Power evaluates the model for one snapshot without touching the totals.
func (a *Accumulator) Power(snap proc.Snapshot) Result {
	uvm := util.Clamp01(snap.UVm)
	up := util.Clamp01(snap.UProc)
	dt := math.Max(snap.Interval.Seconds(), minInterval)

	// dynamic CPU power at system level, attributed by the process share
	var share float64
	if uvm > 1e-12 {
		share = up / uvm
	}
	pcpu := share * (a.cfg.PMax - a.cfg.PIdle) * util.Pow(uvm, a.cfg.Gamma)

	edisk := a.cfg.ER*float64(snap.ReadBytes) + a.cfg.EW*float64(snap.WriteBytes)
	eram := a.cfg.EMemRef*float64(snap.RefaultBytes) + a.cfg.EMemRSS*float64(snap.RSSChurnBytes)

	var pidle float64
	if a.cfg.Alpha > 0 {
		pidle = a.cfg.Alpha * a.cfg.PIdle * share
	}

	pdisk, pram := edisk/dt, eram/dt
	return Result{
		CPU:       units.PowerFromWatts(pcpu),
		Disk:      units.PowerFromWatts(pdisk),
		RAM:       units.PowerFromWatts(pram),
		IdleShare: units.PowerFromWatts(pidle),
		Total:     units.PowerFromWatts(pcpu + pdisk + pram + pidle),
	}
}

// Apply evaluates one snapshot, adds Total × interval to the running energy
// and returns the power split and the energy of this window.
func (a *Accumulator) Apply(snap proc.Snapshot) (Result, units.Energy) {
	res := a.Power(snap)
	window := units.TimeFromSeconds(math.Max(snap.Interval.Seconds(), minInterval))
	e := units.EnergyFromPowerAndTime(res.Total, window)

	a.energy = a.energy.Plus(e)
	a.count++
	a.sum.cpu += res.CPU.Watts()
	a.sum.disk += res.Disk.Watts()
	a.sum.ram += res.RAM.Watts()
	a.sum.idle += res.IdleShare.Watts()
	a.sum.total += res.Total.Watts()
	return res, e
}

// Energy returns the cumulative energy.
func (a *Accumulator) Energy() units.Energy { return a.energy }

// Samples returns the number of applied snapshots.
func (a *Accumulator) Samples() int { return a.count }

// Averages returns average powers over all applied samples.
func (a *Accumulator) Averages() Result {
	if a.count == 0 {
		return Result{}
	}
	n := float64(a.count)
	return Result{
		CPU:       units.PowerFromWatts(a.sum.cpu / n),
		Disk:      units.PowerFromWatts(a.sum.disk / n),
		RAM:       units.PowerFromWatts(a.sum.ram / n),
		IdleShare: units.PowerFromWatts(a.sum.idle / n),
		Total:     units.PowerFromWatts(a.sum.total / n),
	}
}
