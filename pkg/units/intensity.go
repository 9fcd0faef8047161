package units

import "fmt"

const (
	// PoundsPerMegawattHourToKilogramsPerKilowattHour folds lb→kg (0.45359237)
	// and MWh→kWh (1/1000) into one factor.
	PoundsPerMegawattHourToKilogramsPerKilowattHour = 0.00045359237

	// GramsPerKilowattHourToKilogramsPerKilowattHour converts g/kWh to kg/kWh.
	GramsPerKilowattHourToKilogramsPerKilowattHour = 0.001
)

// EmissionIntensity is the carbon cost of one kilowatt-hour, in kg CO2/kWh.
// It depends on the electricity source and region.
type EmissionIntensity struct {
	kgPerKWh float64
}

// IntensityFromPoundsPerMegawattHour converts lb/MWh, the unit used by eGRID.
func IntensityFromPoundsPerMegawattHour(v float64) EmissionIntensity {
	return EmissionIntensity{kgPerKWh: v * PoundsPerMegawattHourToKilogramsPerKilowattHour}
}

// IntensityFromGramsPerKilowattHour converts g/kWh.
func IntensityFromGramsPerKilowattHour(v float64) EmissionIntensity {
	return EmissionIntensity{kgPerKWh: v * GramsPerKilowattHourToKilogramsPerKilowattHour}
}

// IntensityFromKilogramsPerKilowattHour takes the canonical unit as-is.
func IntensityFromKilogramsPerKilowattHour(v float64) EmissionIntensity {
	return EmissionIntensity{kgPerKWh: v}
}

// KilogramsPerKilowattHour returns the canonical magnitude.
func (i EmissionIntensity) KilogramsPerKilowattHour() float64 { return i.kgPerKWh }

// GramsPerKilowattHour returns the intensity in g/kWh.
func (i EmissionIntensity) GramsPerKilowattHour() float64 {
	return i.kgPerKWh / GramsPerKilowattHourToKilogramsPerKilowattHour
}

func (i EmissionIntensity) String() string { return fmt.Sprintf("%gkg/kWh", i.kgPerKWh) }
