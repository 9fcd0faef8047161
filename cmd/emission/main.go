//go:build linux

package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ja7ad/emission/pkg/system/proc"
)

func main() {
	a := &app{log: newLogger(os.Stderr, zerolog.InfoLevel)}
	o := &a.opts

	root := &cobra.Command{
		Use:   "emission [PID|PID..PID]...",
		Short: "Process energy and CO2 estimation",
		Long: `The emission tool samples Linux processes, estimates their power draw
(CPU, disk I/O, RAM proxies), integrates it into kilowatt-hours and prices the
energy with a grid emission intensity to report kilograms of CO2.

Examples:
  emission -s 30 -i 1s --region FR $(pidof postgres)
  sudo emission --backend cgroup2 --html run.html 12345
  emission --tree --intensity 420 --intensity-unit g_per_kwh --json run.json 12345
  emission convert --kwh 12.5 --region us-east-1
  emission regions`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := zerolog.ParseLevel(o.logLevel)
			if err != nil {
				return err
			}
			a.log = a.log.Level(lvl)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.applyFile(cmd); err != nil {
				return err
			}
			return a.run(cmd.Context(), args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&o.region, "region", "global", "grid region used to price energy")
	pf.StringVar(&o.factorsPath, "factors", "", "YAML file with custom grid factors")
	pf.Float64Var(&o.intensity, "intensity", 0, "explicit emission intensity (overrides --region)")
	pf.StringVar(&o.intensityUnit, "intensity-unit", "g_per_kwh", "unit of --intensity (kg_per_kwh, g_per_kwh, lbs_per_mwh)")

	f := root.Flags()
	f.StringVar(&o.configPath, "config", "", "YAML config file; flags given on the command line win")
	f.StringVar(&o.backend, "backend", string(proc.BackendProc), "sampling backend: proc, cgroup2 (needs write access to /sys/fs/cgroup) or auto")
	f.BoolVar(&o.pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	f.BoolVar(&o.tree, "tree", false, "also sample every descendant of the given PIDs")
	f.IntVar(&o.warmup, "warmup", 1, "number of initial samples to skip from display and totals")
	f.IntVarP(&o.samples, "samples", "s", 5, "number of samples to collect (0 = run until Ctrl-C)")
	f.DurationVarP(&o.interval, "interval", "i", time.Second, "sampling interval (e.g. 1s, 500ms)")
	f.Float64Var(&o.ema, "ema", 0.5, "EMA alpha for VM utilization smoothing [0..1]")

	f.Float64Var(&o.model.PIdle, "p-idle", 5.0, "idle power in Watts")
	f.Float64Var(&o.model.PMax, "p-max", 20.0, "max power in Watts at 100% utilization")
	f.Float64Var(&o.model.Gamma, "gamma", 1.3, "CPU nonlinearity exponent")
	f.Float64Var(&o.model.ER, "er", 4.8e-8, "disk read energy per byte (J/B)")
	f.Float64Var(&o.model.EW, "ew", 9.5e-8, "disk write energy per byte (J/B)")
	f.Float64Var(&o.model.EMemRef, "e-mem-ref", 7e-10, "RAM refault energy per byte (J/B)")
	f.Float64Var(&o.model.EMemRSS, "e-mem-rss", 3e-10, "RAM RSS churn energy per byte (J/B)")
	f.Float64Var(&o.model.Alpha, "alpha", 0.0, "fraction of idle to charge proportionally [0..1]")

	f.StringVar(&o.experimentID, "experiment-id", "", "experiment identifier recorded in the report")
	f.StringVar(&o.projectID, "project-id", "", "project identifier recorded in the report")
	f.StringVar(&o.csvPath, "csv", "", "write per-tick rows to CSV file")
	f.StringVar(&o.jsonPath, "json", "", "write the run report and per-tick rows to JSON file")
	f.StringVar(&o.htmlPath, "html", "", "write the run report and per-tick rows to HTML file")

	root.AddCommand(newConvertCmd(a), newRegionsCmd(a))

	if err := root.Execute(); err != nil {
		a.log.Error().Err(err).Msg("emission failed")
		os.Exit(1)
	}
}
