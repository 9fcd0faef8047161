package units

import "fmt"

const (
	// MilliwattsToWatts and WattsToKilowatts chain milliwatts into Power's
	// canonical kilowatts.
	MilliwattsToWatts = 0.001
	WattsToKilowatts  = 0.001
)

// Power is an instantaneous electrical draw in kilowatts.
type Power struct {
	kilowatts float64
}

// PowerFromKilowatts returns a Power of kw kilowatts.
func PowerFromKilowatts(kw float64) Power { return Power{kilowatts: kw} }

// PowerFromWatts returns a Power of w watts.
func PowerFromWatts(w float64) Power { return Power{kilowatts: w * WattsToKilowatts} }

// PowerFromMilliwatts returns a Power of mw milliwatts.
func PowerFromMilliwatts(mw float64) Power {
	return Power{kilowatts: mw * MilliwattsToWatts * WattsToKilowatts}
}

// Kilowatts returns the canonical magnitude.
func (p Power) Kilowatts() float64 { return p.kilowatts }

// Watts returns the draw in watts.
func (p Power) Watts() float64 { return p.kilowatts / WattsToKilowatts }

func (p Power) String() string { return fmt.Sprintf("%gkW", p.kilowatts) }
