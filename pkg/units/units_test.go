package units

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tol scales an absolute tolerance to the magnitude under test.
func tol(v float64) float64 { return 1e-12 * math.Max(1, math.Abs(v)) }

func TestPowerFromMilliwatts(t *testing.T) {
	for _, mw := range []float64{0, 1, 250, 45_000, 1e6, 3.3e9, -120} {
		t.Run(fmt.Sprintf("mw_%g", mw), func(t *testing.T) {
			p := PowerFromMilliwatts(mw)
			assert.InDelta(t, mw*1e-6, p.Kilowatts(), tol(mw*1e-6))
		})
	}
}

func TestPowerFromWatts(t *testing.T) {
	p := PowerFromWatts(1500)
	assert.InDelta(t, 1.5, p.Kilowatts(), 1e-12)
	assert.InDelta(t, 1500.0, p.Watts(), 1e-9)

	assert.Equal(t, 2.0, PowerFromKilowatts(2).Kilowatts())
}

func TestTimeHours(t *testing.T) {
	for _, s := range []float64{0, 1, 59.5, 3600, 5400, 86400, 1e9} {
		t.Run(fmt.Sprintf("s_%g", s), func(t *testing.T) {
			tm := TimeFromSeconds(s)
			assert.Equal(t, s, tm.Seconds())
			assert.Equal(t, s/3600, tm.Hours())
		})
	}
}

func TestTimeFromDuration(t *testing.T) {
	tm := TimeFromDuration(90 * time.Minute)
	assert.Equal(t, 5400.0, tm.Seconds())
	assert.Equal(t, 1.5, tm.Hours())
	assert.Equal(t, 90*time.Minute, tm.Duration())
}

func TestTimeDuration_Saturates(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{1e12, math.MaxInt64},
		{math.Inf(1), math.MaxInt64},
		{-1e12, math.MinInt64},
		{math.Inf(-1), math.MinInt64},
		{math.NaN(), 0},
		{-2.5, -2500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.seconds), func(t *testing.T) {
			assert.Equal(t, tt.want, TimeFromSeconds(tt.seconds).Duration())
		})
	}
}

func TestEnergyFromPowerAndTime(t *testing.T) {
	e := EnergyFromPowerAndTime(PowerFromKilowatts(2.0), TimeFromSeconds(3600))
	assert.Equal(t, 2.0, e.KilowattHours())

	// 45 W for 30 minutes = 0.0225 kWh
	e = EnergyFromPowerAndTime(PowerFromMilliwatts(45_000), TimeFromSeconds(1800))
	assert.InDelta(t, 0.0225, e.KilowattHours(), 1e-12)
}

func TestEnergyFromPowerAndTime_InputsUnchanged(t *testing.T) {
	p := PowerFromKilowatts(0.3)
	tm := TimeFromSeconds(120)
	pCopy, tCopy := p, tm

	_ = EnergyFromPowerAndTime(p, tm)
	assert.Equal(t, pCopy, p)
	assert.Equal(t, tCopy, tm)
}

func TestEnergyKilowattHoursRoundTrip(t *testing.T) {
	for _, kwh := range []float64{0, 0.1, 1.0 / 3.0, 42, 1e-15, 7.25e12} {
		assert.Equal(t, kwh, EnergyFromKilowattHours(kwh).KilowattHours())
	}
}

func TestEnergyJoules(t *testing.T) {
	e := EnergyFromJoules(3.6e6)
	assert.Equal(t, 1.0, e.KilowattHours())
	assert.Equal(t, 3.6e6, e.Joules())
}

func TestEnergyPlus(t *testing.T) {
	a := EnergyFromKilowattHours(1.25)
	b := EnergyFromKilowattHours(0.75)

	sum := a.Plus(b)
	assert.Equal(t, 2.0, sum.KilowattHours())
	// receiver and argument stay as they were
	assert.Equal(t, 1.25, a.KilowattHours())
	assert.Equal(t, 0.75, b.KilowattHours())
}

func TestEnergyPlus_Commutative(t *testing.T) {
	a := EnergyFromKilowattHours(0.1)
	b := EnergyFromKilowattHours(0.2)
	assert.Equal(t, a.Plus(b), b.Plus(a))
}

func TestEnergyPlus_Associative(t *testing.T) {
	cases := [][3]float64{
		{0.1, 0.2, 0.3},
		{1e-9, 1e3, 7.5},
		{1.0 / 3.0, 2.0 / 3.0, 1.0 / 7.0},
		{123456.789, 0.000123, 42},
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			a := EnergyFromKilowattHours(c[0])
			b := EnergyFromKilowattHours(c[1])
			cc := EnergyFromKilowattHours(c[2])

			left := a.Plus(b).Plus(cc).KilowattHours()
			right := a.Plus(b.Plus(cc)).KilowattHours()
			assert.InDelta(t, left, right, tol(left))
		})
	}
}

func TestSumEnergy_RunningTotal(t *testing.T) {
	assert.Equal(t, Energy{}, SumEnergy())

	readings := make([]Energy, 0, 100)
	var want float64
	for i := 1; i <= 100; i++ {
		kwh := float64(i) * 0.001
		readings = append(readings, EnergyFromKilowattHours(kwh))
		want += kwh
	}

	var running Energy
	for _, r := range readings {
		running = running.Plus(r)
	}
	assert.Equal(t, want, running.KilowattHours())
	assert.Equal(t, running, SumEnergy(readings...))
}

func TestEmissionIntensityConstructors(t *testing.T) {
	assert.InDelta(t, 0.5, IntensityFromGramsPerKilowattHour(500).KilogramsPerKilowattHour(), 1e-15)
	assert.InDelta(t, 0.45359237, IntensityFromPoundsPerMegawattHour(1000).KilogramsPerKilowattHour(), 1e-12)
	assert.Equal(t, 0.233, IntensityFromKilogramsPerKilowattHour(0.233).KilogramsPerKilowattHour())
	assert.InDelta(t, 500.0, IntensityFromGramsPerKilowattHour(500).GramsPerKilowattHour(), 1e-9)
}

func TestMass(t *testing.T) {
	m := MassFromGrams(1500)
	assert.InDelta(t, 1.5, m.Kilograms(), 1e-12)
	assert.InDelta(t, 1500.0, m.Grams(), 1e-9)

	sum := MassFromKilograms(1).Plus(MassFromKilograms(2.5))
	assert.Equal(t, 3.5, sum.Kilograms())
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "2kWh", EnergyFromKilowattHours(2).String())
	assert.Equal(t, "0.5kW", PowerFromKilowatts(0.5).String())
	assert.Equal(t, "90s", TimeFromSeconds(90).String())
	assert.Equal(t, "0.4kg/kWh", IntensityFromKilogramsPerKilowattHour(0.4).String())
	assert.Equal(t, "3kg", MassFromKilograms(3).String())
}

// Energy + Power must not type-check. A test cannot hold code that fails to
// compile, so check the properties that make it impossible instead.
func TestUnitMixingRejected(t *testing.T) {
	energy := reflect.TypeOf(Energy{})
	others := []reflect.Type{
		reflect.TypeOf(Power{}),
		reflect.TypeOf(Time{}),
		reflect.TypeOf(EmissionIntensity{}),
		reflect.TypeOf(Mass{}),
		reflect.TypeOf(float64(0)),
	}
	for _, o := range others {
		t.Run(o.String(), func(t *testing.T) {
			assert.False(t, o.AssignableTo(energy))
			assert.False(t, o.ConvertibleTo(energy))
		})
	}

	plus, ok := energy.MethodByName("Plus")
	require.True(t, ok)
	require.Equal(t, 2, plus.Type.NumIn()) // receiver + operand
	assert.Equal(t, energy, plus.Type.In(1))

	// Energy is a struct with no numeric kind, so the + operator is undefined.
	assert.Equal(t, reflect.Struct, energy.Kind())
}

// Non-finite input is not rejected; it propagates unchanged.
func TestNonFiniteInputPropagates(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	assert.True(t, math.IsNaN(PowerFromMilliwatts(nan).Kilowatts()))
	assert.True(t, math.IsNaN(EnergyFromKilowattHours(1).Plus(EnergyFromKilowattHours(nan)).KilowattHours()))
	assert.True(t, math.IsInf(TimeFromSeconds(inf).Hours(), 1))
	assert.True(t, math.IsInf(EnergyFromPowerAndTime(PowerFromKilowatts(1), TimeFromSeconds(inf)).KilowattHours(), 1))

	// negative magnitudes are accepted as given
	assert.Equal(t, -1.0, EnergyFromKilowattHours(-1).KilowattHours())
}
