//go:build linux

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ja7ad/emission/pkg/consumption"
	"github.com/ja7ad/emission/pkg/emissions"
	"github.com/ja7ad/emission/pkg/system/proc"
	"github.com/ja7ad/emission/pkg/system/util"
	"github.com/ja7ad/emission/pkg/units"
)

type row struct {
	At           time.Time   `json:"time"`
	UVm          float64     `json:"u_vm"`
	UProc        float64     `json:"u_proc"`
	PCPU         float64     `json:"p_cpu_w"`
	PDisk        float64     `json:"p_disk_w"`
	PRAM         float64     `json:"p_ram_w"`
	PIdleShare   float64     `json:"p_idle_share_w"`
	PTotal       float64     `json:"p_total_w"`
	EnergyKWh    float64     `json:"e_kwh"`
	EnergyCumKWh float64     `json:"e_cum_kwh"`
	CO2CumKg     float64     `json:"co2_cum_kg"`
	ReadBytes    units.Bytes `json:"read_bytes"`
	WriteBytes   units.Bytes `json:"write_bytes"`
	RefaultB     units.Bytes `json:"refault_bytes"`
	RSSChurnB    units.Bytes `json:"rss_churn_bytes"`
	IntervalSec  float64     `json:"interval_sec"`
}

func newRow(at time.Time, s proc.Snapshot, r consumption.Result, window units.Energy, tr *emissions.Tracker) row {
	return row{
		At:           at,
		UVm:          s.UVm,
		UProc:        s.UProc,
		PCPU:         r.CPU.Watts(),
		PDisk:        r.Disk.Watts(),
		PRAM:         r.RAM.Watts(),
		PIdleShare:   r.IdleShare.Watts(),
		PTotal:       r.Total.Watts(),
		EnergyKWh:    window.KilowattHours(),
		EnergyCumKWh: tr.Energy().KilowattHours(),
		CO2CumKg:     tr.Emissions().Kilograms(),
		ReadBytes:    s.ReadBytes,
		WriteBytes:   s.WriteBytes,
		RefaultB:     s.RefaultBytes,
		RSSChurnB:    s.RSSChurnBytes,
		IntervalSec:  s.Interval.Seconds(),
	}
}

var csvHeader = []string{
	"time", "u_vm", "u_proc", "p_cpu_w", "p_disk_w", "p_ram_w", "p_idle_share_w", "p_total_w",
	"e_kwh", "e_cum_kwh", "co2_cum_kg",
	"read_bytes", "write_bytes", "refault_bytes", "rss_churn_bytes", "interval_sec",
}

func (r row) csv() []string {
	u := func(b units.Bytes) string { return strconv.FormatUint(b.Uint64(), 10) }
	return []string{
		r.At.Format(time.RFC3339),
		util.FmtFloat(r.UVm), util.FmtFloat(r.UProc),
		util.FmtFloat(r.PCPU), util.FmtFloat(r.PDisk), util.FmtFloat(r.PRAM),
		util.FmtFloat(r.PIdleShare), util.FmtFloat(r.PTotal),
		util.FmtFloat(r.EnergyKWh), util.FmtFloat(r.EnergyCumKWh), util.FmtFloat(r.CO2CumKg),
		u(r.ReadBytes), u(r.WriteBytes), u(r.RefaultB), u(r.RSSChurnB),
		util.FmtFloat(r.IntervalSec),
	}
}

// output fans rows out to stdout and the optional CSV and JSON files.
type output struct {
	stdout   io.Writer
	tw       *tabwriter.Writer
	csvF     *os.File
	csvW     *csv.Writer
	jsonPath string
	htmlPath string
	rows     []row
}

func newOutput(o opts) (*output, error) {
	out := &output{stdout: os.Stdout, jsonPath: o.jsonPath, htmlPath: o.htmlPath}
	if o.pretty {
		out.tw = tabwriter.NewWriter(out.stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(out.tw, "TIME\tU_vm\tU_proc\tP_total (W)\tE (kWh)\tE_cum (kWh)\tCO2_cum (kg)")
		fmt.Fprintln(out.tw, "----\t----\t------\t-----------\t-------\t-----------\t------------")
		out.tw.Flush()
	} else {
		fmt.Fprintln(out.stdout, "# time, U_vm, U_proc, P_total(W), E(kWh), E_cum(kWh), CO2_cum(kg)")
	}

	if o.csvPath != "" {
		f, err := create(o.csvPath)
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		out.csvF, out.csvW = f, csv.NewWriter(f)
		if err := out.csvW.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		out.csvW.Flush()
	}
	return out, nil
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (out *output) row(r row) error {
	if out.tw != nil {
		fmt.Fprintf(out.tw, "%s\t%.4f\t%.4f\t%.3f\t%.3e\t%.3e\t%.3e\n",
			r.At.Format(time.DateTime), r.UVm, r.UProc, r.PTotal, r.EnergyKWh, r.EnergyCumKWh, r.CO2CumKg)
		out.tw.Flush()
	} else {
		fmt.Fprintf(out.stdout, "%s, %.4f, %.4f, %.3f, %.3e, %.3e, %.3e\n",
			r.At.Format(time.RFC3339), r.UVm, r.UProc, r.PTotal, r.EnergyKWh, r.EnergyCumKWh, r.CO2CumKg)
	}
	if out.jsonPath != "" || out.htmlPath != "" {
		out.rows = append(out.rows, r)
	}
	if out.csvW != nil {
		if err := out.csvW.Write(r.csv()); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
		out.csvW.Flush()
		if err := out.csvW.Error(); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
	}
	return nil
}

func (out *output) summary(rep emissions.Report, avg consumption.Result) {
	w := out.stdout
	fmt.Fprintln(w)
	fmt.Fprintf(w, "run %s (%d samples, %.1fs, region %s):\n", rep.RunID, rep.Samples, rep.DurationSec, rep.Region)
	fmt.Fprintf(w, "- watt (cpu):    %.3f W\n", avg.CPU.Watts())
	fmt.Fprintf(w, "- watt (disk):   %.3f W\n", avg.Disk.Watts())
	fmt.Fprintf(w, "- watt (ram):    %.3f W\n", avg.RAM.Watts())
	fmt.Fprintf(w, "- watt (total):  %.3f W\n", avg.Total.Watts())
	fmt.Fprintf(w, "- energy:        %.6g kWh\n", rep.EnergyKWh)
	fmt.Fprintf(w, "- intensity:     %.4g kg/kWh\n", rep.IntensityKgPerKWh)
	fmt.Fprintf(w, "- emissions:     %.6g kg CO2\n", rep.EmissionsKg)
	fmt.Fprintln(w)
}

type jsonReport struct {
	emissions.Report
	Rows []row `json:"rows"`
}

// finish writes the JSON and HTML files, if requested.
func (out *output) finish(rep emissions.Report, avg consumption.Result, procs []procInfo) error {
	if out.jsonPath != "" {
		b, err := json.MarshalIndent(jsonReport{Report: rep, Rows: out.rows}, "", "  ")
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		if err := writeFile(out.jsonPath, func(w io.Writer) error {
			_, err := w.Write(append(b, '\n'))
			return err
		}); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}
	if out.htmlPath != "" {
		v := htmlView{Report: rep, Avg: avg, Procs: procs, Rows: out.rows}
		if err := writeFile(out.htmlPath, v.render); err != nil {
			return fmt.Errorf("html: %w", err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (out *output) close(log zerolog.Logger) {
	if out.csvW != nil {
		out.csvW.Flush()
		if err := out.csvW.Error(); err != nil {
			log.Error().Err(err).Msg("csv flush")
		}
	}
	if out.csvF != nil {
		_ = out.csvF.Close()
	}
}
