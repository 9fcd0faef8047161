//go:build linux

package main

import (
	"html/template"
	"io"
	"slices"

	"github.com/ja7ad/emission/pkg/consumption"
	"github.com/ja7ad/emission/pkg/emissions"
	"github.com/ja7ad/emission/pkg/system/proc"
)

type procInfo struct {
	PID  int
	Name string
}

// describe names the sampled PIDs; unreadable ones keep an empty name.
func describe(pids []int) []procInfo {
	out := make([]procInfo, 0, len(pids))
	for _, pid := range pids {
		name, _ := proc.ReadProcComm(pid)
		out = append(out, procInfo{PID: pid, Name: name})
	}
	slices.SortFunc(out, func(a, b procInfo) int { return a.PID - b.PID })
	return out
}

type htmlView struct {
	Report emissions.Report
	Avg    consumption.Result
	Procs  []procInfo
	Rows   []row
}

func (v htmlView) render(w io.Writer) error { return reportTpl.Execute(w, v) }

var reportTpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>Emission Report</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child{text-align:left}
ul{margin:6px 0 14px;padding-left:20px}
.small{color:#555}
.badge{display:inline-block;background:#eef;border:1px solid #ccd;padding:2px 6px;border-radius:6px;margin-right:6px;}
</style>

<h1>Emission Report</h1>

{{with .Report}}
<p class="small">
Run {{.RunID}} &nbsp;|&nbsp;
{{if .ExperimentID}}Experiment {{.ExperimentID}} &nbsp;|&nbsp;{{end}}
{{if .ProjectID}}Project {{.ProjectID}} &nbsp;|&nbsp;{{end}}
Region {{.Region}} &nbsp;|&nbsp;
Samples {{.Samples}} over {{printf "%.1f" .DurationSec}} s
</p>
{{end}}

{{if .Procs}}
<h2>Processes</h2>
<ul>
{{range .Procs}}
  <li><span class="badge">PID {{.PID}}</span> {{.Name}}</li>
{{end}}
</ul>
{{end}}

<h2>Summary</h2>
<ul>
<li>Avg P(cpu): {{printf "%.3f" .Avg.CPU.Watts}} W</li>
<li>Avg P(disk): {{printf "%.3f" .Avg.Disk.Watts}} W</li>
<li>Avg P(ram): {{printf "%.3f" .Avg.RAM.Watts}} W</li>
<li>Avg P(total): {{printf "%.3f" .Avg.Total.Watts}} W</li>
<li>Energy: {{printf "%.6g" .Report.EnergyKWh}} kWh</li>
<li>Intensity: {{printf "%.4g" .Report.IntensityKgPerKWh}} kg/kWh</li>
<li>Emissions: {{printf "%.6g" .Report.EmissionsKg}} kg CO2</li>
</ul>

<h2>Per-tick</h2>
<table>
<thead>
<tr>
<th>time</th><th>U_vm</th><th>U_proc</th>
<th>P_cpu(W)</th><th>P_disk(W)</th><th>P_ram(W)</th><th>P_total(W)</th>
<th>E_cum(kWh)</th><th>CO2_cum(kg)</th>
<th>read</th><th>write</th><th>refault</th><th>rssΔ</th>
</tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{.At.Format "2006-01-02 15:04:05"}}</td>
<td>{{printf "%.4f" .UVm}}</td>
<td>{{printf "%.4f" .UProc}}</td>
<td>{{printf "%.3f" .PCPU}}</td>
<td>{{printf "%.3f" .PDisk}}</td>
<td>{{printf "%.3f" .PRAM}}</td>
<td>{{printf "%.3f" .PTotal}}</td>
<td>{{printf "%.3e" .EnergyCumKWh}}</td>
<td>{{printf "%.3e" .CO2CumKg}}</td>
<td>{{.ReadBytes.Humanized}}</td>
<td>{{.WriteBytes.Humanized}}</td>
<td>{{.RefaultB.Humanized}}</td>
<td>{{.RSSChurnB.Humanized}}</td>
</tr>
{{end}}
</tbody>
</table>
</html>`))
