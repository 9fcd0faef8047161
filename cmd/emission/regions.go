//go:build linux

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List grid regions and their emission intensity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := a.table()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "REGION\tkg/kWh\tg/kWh")
			for _, r := range tbl.Regions() {
				in, _ := tbl.Lookup(r)
				fmt.Fprintf(tw, "%s\t%.4f\t%.1f\n", r, in.KilogramsPerKilowattHour(), in.GramsPerKilowattHour())
			}
			return tw.Flush()
		},
	}
}
