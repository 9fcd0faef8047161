package units

import "fmt"

// GramsToKilograms converts grams into Mass's canonical kilograms.
const GramsToKilograms = 0.001

// Mass is an amount of emitted CO2 in kilograms.
type Mass struct {
	kilograms float64
}

// MassFromKilograms returns a Mass of kg kilograms.
func MassFromKilograms(kg float64) Mass { return Mass{kilograms: kg} }

// MassFromGrams returns a Mass of g grams.
func MassFromGrams(g float64) Mass { return Mass{kilograms: g * GramsToKilograms} }

// Kilograms returns the canonical magnitude.
func (m Mass) Kilograms() float64 { return m.kilograms }

// Grams returns the mass in grams.
func (m Mass) Grams() float64 { return m.kilograms / GramsToKilograms }

// Plus returns the sum of m and o.
func (m Mass) Plus(o Mass) Mass { return Mass{kilograms: m.kilograms + o.kilograms} }

func (m Mass) String() string { return fmt.Sprintf("%gkg", m.kilograms) }
