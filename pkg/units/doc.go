// Package units provides unit-tagged physical quantities used to turn
// measured electrical draw into estimated carbon emissions.
//
// Each type stores one magnitude in a single canonical unit:
//
//	Time               seconds
//	Power              kilowatts
//	Energy             kilowatt-hours
//	EmissionIntensity  kilograms CO2 per kilowatt-hour
//	Mass               kilograms CO2
//
// Conversion factors are applied only by the From* constructors. Values are
// immutable and comparable with ==. The types are distinct structs, so mixing
// them (adding Power to Energy, passing Time where Power is expected) is a
// compile error rather than a silent numeric result.
//
// Sign and finiteness are not validated: NaN and ±Inf pass through
// construction and arithmetic unchanged. Callers filter invalid readings.
//
// Example
//
//	p := units.PowerFromMilliwatts(45_000)         // 0.045 kW
//	t := units.TimeFromSeconds(1800)               // 0.5 h
//	e := units.EnergyFromPowerAndTime(p, t)        // 0.0225 kWh
//	i := units.IntensityFromGramsPerKilowattHour(400)
//	kg := e.KilowattHours() * i.KilogramsPerKilowattHour()
package units
