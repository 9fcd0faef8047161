//go:build linux

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ja7ad/emission/pkg/consumption"
	"github.com/ja7ad/emission/pkg/system/proc"
)

type opts struct {
	configPath string
	logLevel   string

	// sampling
	backend  string
	pretty   bool
	tree     bool
	warmup   int
	samples  int
	interval time.Duration
	ema      float64

	// model
	model consumption.Config

	// pricing
	region        string
	factorsPath   string
	intensity     float64
	intensityUnit string

	// report
	experimentID string
	projectID    string
	csvPath      string
	jsonPath     string
	htmlPath     string
}

// fileConfig mirrors the flags. Pointers tell "absent" from zero.
type fileConfig struct {
	Backend       *string  `yaml:"backend"`
	Samples       *int     `yaml:"samples"`
	Interval      *string  `yaml:"interval"`
	Warmup        *int     `yaml:"warmup"`
	EMA           *float64 `yaml:"ema"`
	Tree          *bool    `yaml:"tree"`
	Region        *string  `yaml:"region"`
	Factors       *string  `yaml:"factors"`
	Intensity     *float64 `yaml:"intensity"`
	IntensityUnit *string  `yaml:"intensity_unit"`
	ExperimentID  *string  `yaml:"experiment_id"`
	ProjectID     *string  `yaml:"project_id"`
	CSV           *string  `yaml:"csv"`
	JSON          *string  `yaml:"json"`
	HTML          *string  `yaml:"html"`
	Model         struct {
		PIdle   *float64 `yaml:"p_idle"`
		PMax    *float64 `yaml:"p_max"`
		Gamma   *float64 `yaml:"gamma"`
		ER      *float64 `yaml:"er"`
		EW      *float64 `yaml:"ew"`
		EMemRef *float64 `yaml:"e_mem_ref"`
		EMemRSS *float64 `yaml:"e_mem_rss"`
		Alpha   *float64 `yaml:"alpha"`
	} `yaml:"model"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &fc, nil
}

// set copies *v into *dst unless the flag was given on the command line.
func set[T any](cmd *cobra.Command, flag string, dst *T, v *T) {
	if v == nil || cmd.Flags().Changed(flag) {
		return
	}
	*dst = *v
}

// applyFile layers the --config file under the command-line flags.
func (o *opts) applyFile(cmd *cobra.Command) error {
	if o.configPath == "" {
		return nil
	}
	fc, err := loadFileConfig(o.configPath)
	if err != nil {
		return err
	}
	return o.merge(cmd, fc)
}

func (o *opts) merge(cmd *cobra.Command, fc *fileConfig) error {
	set(cmd, "backend", &o.backend, fc.Backend)
	set(cmd, "samples", &o.samples, fc.Samples)
	set(cmd, "warmup", &o.warmup, fc.Warmup)
	set(cmd, "ema", &o.ema, fc.EMA)
	set(cmd, "tree", &o.tree, fc.Tree)
	set(cmd, "region", &o.region, fc.Region)
	set(cmd, "factors", &o.factorsPath, fc.Factors)
	set(cmd, "intensity", &o.intensity, fc.Intensity)
	set(cmd, "intensity-unit", &o.intensityUnit, fc.IntensityUnit)
	set(cmd, "experiment-id", &o.experimentID, fc.ExperimentID)
	set(cmd, "project-id", &o.projectID, fc.ProjectID)
	set(cmd, "csv", &o.csvPath, fc.CSV)
	set(cmd, "json", &o.jsonPath, fc.JSON)
	set(cmd, "html", &o.htmlPath, fc.HTML)

	m := fc.Model
	set(cmd, "p-idle", &o.model.PIdle, m.PIdle)
	set(cmd, "p-max", &o.model.PMax, m.PMax)
	set(cmd, "gamma", &o.model.Gamma, m.Gamma)
	set(cmd, "er", &o.model.ER, m.ER)
	set(cmd, "ew", &o.model.EW, m.EW)
	set(cmd, "e-mem-ref", &o.model.EMemRef, m.EMemRef)
	set(cmd, "e-mem-rss", &o.model.EMemRSS, m.EMemRSS)
	set(cmd, "alpha", &o.model.Alpha, m.Alpha)

	if fc.Interval != nil && !cmd.Flags().Changed("interval") {
		d, err := time.ParseDuration(*fc.Interval)
		if err != nil {
			return fmt.Errorf("config interval: %w", err)
		}
		o.interval = d
	}
	return nil
}

func (o *opts) validate() error {
	switch {
	case o.interval <= 0:
		return fmt.Errorf("interval must be > 0")
	case o.ema < 0 || o.ema > 1:
		return fmt.Errorf("ema must be in [0,1]")
	case o.model.Alpha < 0 || o.model.Alpha > 1:
		return fmt.Errorf("alpha must be in [0,1]")
	case o.samples < 0:
		return fmt.Errorf("samples must be >= 0")
	case o.warmup < 0:
		return fmt.Errorf("warmup must be >= 0")
	}
	if _, err := proc.ParseBackend(o.backend); err != nil {
		return err
	}
	return nil
}
