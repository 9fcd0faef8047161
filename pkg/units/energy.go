package units

import "fmt"

// JoulesPerKilowattHour converts between joules and kilowatt-hours.
const JoulesPerKilowattHour = 3.6e6

// Energy is power integrated over time, in kilowatt-hours.
type Energy struct {
	kilowattHours float64
}

// EnergyFromKilowattHours returns an Energy of kwh kilowatt-hours.
func EnergyFromKilowattHours(kwh float64) Energy { return Energy{kilowattHours: kwh} }

// EnergyFromJoules returns an Energy of j joules.
func EnergyFromJoules(j float64) Energy { return Energy{kilowattHours: j / JoulesPerKilowattHour} }

// EnergyFromPowerAndTime integrates a constant draw over an interval.
func EnergyFromPowerAndTime(p Power, t Time) Energy {
	return Energy{kilowattHours: p.Kilowatts() * t.Hours()}
}

// KilowattHours returns the canonical magnitude.
func (e Energy) KilowattHours() float64 { return e.kilowattHours }

// Joules returns the energy in joules.
func (e Energy) Joules() float64 { return e.kilowattHours * JoulesPerKilowattHour }

// Plus returns the sum of e and o. Neither operand changes.
func (e Energy) Plus(o Energy) Energy {
	return Energy{kilowattHours: e.kilowattHours + o.kilowattHours}
}

// SumEnergy folds es with Plus, starting from zero.
func SumEnergy(es ...Energy) Energy {
	var total Energy
	for _, e := range es {
		total = total.Plus(e)
	}
	return total
}

func (e Energy) String() string { return fmt.Sprintf("%gkWh", e.kilowattHours) }
