//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ja7ad/emission/pkg/emissions"
	"github.com/ja7ad/emission/pkg/units"
)

type convertOpts struct {
	kwh        float64
	watts      float64
	milliwatts float64
	seconds    float64
}

// energy picks kWh when given, otherwise power × seconds.
func (c convertOpts) energy() (units.Energy, error) {
	switch {
	case c.kwh > 0:
		return units.EnergyFromKilowattHours(c.kwh), nil
	case c.seconds <= 0:
		return units.Energy{}, fmt.Errorf("need --kwh, or --watts/--milliwatts with --seconds")
	case c.watts > 0:
		return units.EnergyFromPowerAndTime(units.PowerFromWatts(c.watts), units.TimeFromSeconds(c.seconds)), nil
	case c.milliwatts > 0:
		return units.EnergyFromPowerAndTime(units.PowerFromMilliwatts(c.milliwatts), units.TimeFromSeconds(c.seconds)), nil
	}
	return units.Energy{}, fmt.Errorf("need --watts or --milliwatts with --seconds")
}

func newConvertCmd(a *app) *cobra.Command {
	var c convertOpts
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Price an amount of energy in kilograms of CO2",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := c.energy()
			if err != nil {
				return err
			}
			in, region, err := a.pricing()
			if err != nil {
				return err
			}
			kg := emissions.Of(e, in)
			fmt.Fprintf(cmd.OutOrStdout(), "%.6g kWh × %.4g kg/kWh (%s) = %.6g kg CO2\n",
				e.KilowattHours(), in.KilogramsPerKilowattHour(), region, kg.Kilograms())
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&c.kwh, "kwh", 0, "energy in kilowatt-hours")
	f.Float64Var(&c.watts, "watts", 0, "constant power draw in watts")
	f.Float64Var(&c.milliwatts, "milliwatts", 0, "constant power draw in milliwatts")
	f.Float64Var(&c.seconds, "seconds", 0, "duration of the draw in seconds")
	return cmd
}
