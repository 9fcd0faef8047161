package consumption

import "github.com/ja7ad/emission/pkg/units"

// Config holds model coefficients.
// Units:
//   - PIdle/PMax: Watts
//   - Gamma: dimensionless (CPU nonlinearity)
//   - ER/EW: Joules per byte (disk read/write)
//   - EMemRef/EMemRSS: Joules per byte (RAM proxies)
//   - Alpha: fraction of idle to charge to process share [0..1]
type Config struct {
	PIdle   float64 `yaml:"p_idle"`
	PMax    float64 `yaml:"p_max"`
	Gamma   float64 `yaml:"gamma"`
	ER      float64 `yaml:"er"`
	EW      float64 `yaml:"ew"`
	EMemRef float64 `yaml:"e_mem_ref"`
	EMemRSS float64 `yaml:"e_mem_rss"`
	Alpha   float64 `yaml:"alpha"`
}

// DefaultConfig returns the coefficients used when a field is left unset.
func DefaultConfig() Config {
	return Config{
		PIdle:   5.0,
		PMax:    20.0,
		Gamma:   1.3,
		ER:      4.8e-8,
		EW:      9.5e-8,
		EMemRef: 7e-10,
		EMemRSS: 3e-10,
		Alpha:   0.0,
	}
}

// Result is the instantaneous power breakdown for one snapshot.
type Result struct {
	CPU       units.Power
	Disk      units.Power
	RAM       units.Power
	IdleShare units.Power
	Total     units.Power
}
