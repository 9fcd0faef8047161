//go:build linux

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/emission/pkg/consumption"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	a := &app{log: zerolog.New(&logs)}
	a.region = "global"
	a.intensityUnit = "g_per_kwh"
	return a, &logs
}

// flagCmd registers the subset of root flags merge consults.
func flagCmd(o *opts) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.IntVarP(&o.samples, "samples", "s", 5, "")
	f.DurationVarP(&o.interval, "interval", "i", time.Second, "")
	f.StringVar(&o.region, "region", "global", "")
	f.Float64Var(&o.model.PMax, "p-max", 20, "")
	f.Float64Var(&o.model.Alpha, "alpha", 0, "")
	return cmd
}

func TestMerge_FlagsWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emission.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
samples: 30
interval: 250ms
region: FR
backend: cgroup2
experiment_id: exp-7
model:
  p_max: 45
  alpha: 0.25
`), 0o644))

	var o opts
	cmd := flagCmd(&o)
	require.NoError(t, cmd.ParseFlags([]string{"--samples", "3"}))
	o.configPath = path
	require.NoError(t, o.applyFile(cmd))

	assert.Equal(t, 3, o.samples, "explicit flag wins")
	assert.Equal(t, 250*time.Millisecond, o.interval)
	assert.Equal(t, "FR", o.region)
	assert.Equal(t, "exp-7", o.experimentID)
	assert.Equal(t, "cgroup2", o.backend)
	assert.Equal(t, 45.0, o.model.PMax)
	assert.Equal(t, 0.25, o.model.Alpha)
}

func TestMerge_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("interval: soon\n"), 0o644))
	var o opts
	o.configPath = bad
	assert.Error(t, o.applyFile(flagCmd(&o)))

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("sampels: 3\n"), 0o644))
	o = opts{configPath: unknown}
	assert.Error(t, o.applyFile(flagCmd(&o)))

	o = opts{configPath: filepath.Join(dir, "missing.yaml")}
	assert.Error(t, o.applyFile(flagCmd(&o)))
}

func TestValidate(t *testing.T) {
	good := opts{interval: time.Second, ema: 0.5, backend: "proc", model: consumption.DefaultConfig()}
	require.NoError(t, good.validate())

	for name, mut := range map[string]func(*opts){
		"interval": func(o *opts) { o.interval = 0 },
		"ema":      func(o *opts) { o.ema = 1.5 },
		"alpha":    func(o *opts) { o.model.Alpha = -1 },
		"samples":  func(o *opts) { o.samples = -1 },
		"warmup":   func(o *opts) { o.warmup = -2 },
		"backend":  func(o *opts) { o.backend = "cgroup1" },
	} {
		o := good
		mut(&o)
		assert.Error(t, o.validate(), name)
	}
}

func TestPricing(t *testing.T) {
	a, logs := newTestApp(t)

	a.region = "FR"
	in, region, err := a.pricing()
	require.NoError(t, err)
	assert.Equal(t, "fr", region)
	assert.InDelta(t, 0.056, in.KilogramsPerKilowattHour(), 1e-12)
	assert.Empty(t, logs.String())

	a.region = "atlantis"
	in, region, err = a.pricing()
	require.NoError(t, err)
	assert.Equal(t, "global", region)
	assert.Equal(t, 0.4, in.KilogramsPerKilowattHour())
	assert.Contains(t, logs.String(), "unknown region")

	a.intensity, a.intensityUnit = 1000, "lbs_per_mwh"
	in, region, err = a.pricing()
	require.NoError(t, err)
	assert.Equal(t, "custom", region)
	assert.InDelta(t, 0.45359237, in.KilogramsPerKilowattHour(), 1e-12)

	a.intensityUnit = "stone_per_kwh"
	_, _, err = a.pricing()
	assert.Error(t, err)
}

func TestPricing_CustomFactorsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fallback: lab\nfactors:\n  - {region: lab, value: 0.1, unit: kg_per_kwh}\n"), 0o644))

	a, _ := newTestApp(t)
	a.factorsPath = path
	a.region = "lab"
	in, region, err := a.pricing()
	require.NoError(t, err)
	assert.Equal(t, "lab", region)
	assert.Equal(t, 0.1, in.KilogramsPerKilowattHour())
}

func TestConvertCmd(t *testing.T) {
	a, _ := newTestApp(t)
	a.intensity, a.intensityUnit = 500, "g_per_kwh"

	cmd := newConvertCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--watts", "2000", "--seconds", "3600"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "= 1 kg CO2")

	cmd = newConvertCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--watts", "10"})
	assert.Error(t, cmd.Execute())
}

func TestConvertOpts_Energy(t *testing.T) {
	e, err := convertOpts{kwh: 2.5}.energy()
	require.NoError(t, err)
	assert.Equal(t, 2.5, e.KilowattHours())

	e, err = convertOpts{milliwatts: 2e6, seconds: 1800}.energy()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, e.KilowattHours(), 1e-12)

	_, err = convertOpts{seconds: 10}.energy()
	assert.Error(t, err)
}

func TestRegionsCmd(t *testing.T) {
	a, _ := newTestApp(t)
	cmd := newRegionsCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), 10)
	assert.True(t, strings.HasPrefix(lines[0], "REGION"))
	assert.Contains(t, out.String(), "us-east-1")
}

func TestRowCSV(t *testing.T) {
	r := row{At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), PTotal: 12.5, EnergyKWh: 1e-5, ReadBytes: 4096, IntervalSec: 1}
	rec := r.csv()
	require.Len(t, rec, len(csvHeader))
	assert.Equal(t, "2026-03-01T12:00:00Z", rec[0])
	assert.Equal(t, "12.5", rec[7])
	assert.Equal(t, "1e-05", rec[8])
	assert.Equal(t, "4096", rec[11])
}
