//go:build linux

package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/ja7ad/emission/pkg/grid"
	"github.com/ja7ad/emission/pkg/units"
)

type app struct {
	opts
	log zerolog.Logger
}

// table returns the embedded grid factors, or the --factors file.
func (a *app) table() (*grid.Table, error) {
	if a.factorsPath == "" {
		return grid.Default(), nil
	}
	f, err := os.Open(a.factorsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return grid.Load(f)
}

// pricing resolves the intensity to use and the region label it came from.
// An explicit --intensity wins over --region.
func (a *app) pricing() (units.EmissionIntensity, string, error) {
	if a.intensity > 0 {
		in, err := grid.ParseIntensity(a.intensity, a.intensityUnit)
		return in, "custom", err
	}
	tbl, err := a.table()
	if err != nil {
		return units.EmissionIntensity{}, "", err
	}
	if _, ok := tbl.Lookup(a.region); !ok {
		_, fallback := tbl.Resolve(a.region)
		a.log.Warn().Str("region", a.region).Str("fallback", fallback).Msg("unknown region, using fallback intensity")
	}
	in, used := tbl.Resolve(a.region)
	return in, used, nil
}
