// Package grid maps regions to the emission intensity of their electricity.
package grid

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/emission/pkg/units"
)

// Units accepted in factor files and by ParseIntensity.
const (
	UnitKgPerKWh  = "kg_per_kwh"
	UnitGPerKWh   = "g_per_kwh"
	UnitLbsPerMWh = "lbs_per_mwh"
	DefaultRegion = "global"
)

var (
	ErrUnknownUnit     = errors.New("grid: unknown intensity unit")
	ErrNoFallback      = errors.New("grid: fallback region not in table")
	ErrDuplicateRegion = errors.New("grid: duplicate region")
	ErrEmptyRegion     = errors.New("grid: empty region")
)

//go:embed factors.yaml
var defaultFactors []byte

type factor struct {
	Region string  `yaml:"region"`
	Value  float64 `yaml:"value"`
	Unit   string  `yaml:"unit"`
}

type file struct {
	Fallback string   `yaml:"fallback"`
	Factors  []factor `yaml:"factors"`
}

// Table is an immutable region → intensity lookup. Region names are
// case-insensitive.
type Table struct {
	fallback string
	byRegion map[string]units.EmissionIntensity
}

// ParseIntensity converts value given in unit.
func ParseIntensity(value float64, unit string) (units.EmissionIntensity, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case UnitKgPerKWh, "kg/kwh":
		return units.IntensityFromKilogramsPerKilowattHour(value), nil
	case UnitGPerKWh, "g/kwh":
		return units.IntensityFromGramsPerKilowattHour(value), nil
	case UnitLbsPerMWh, "lbs/mwh", "lb/mwh":
		return units.IntensityFromPoundsPerMegawattHour(value), nil
	}
	return units.EmissionIntensity{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
}

// Load reads a YAML factor file. When fallback is empty it defaults to
// DefaultRegion; the fallback region must be present.
func Load(r io.Reader) (*Table, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("grid: decode: %w", err)
	}

	t := &Table{
		fallback: normalize(f.Fallback),
		byRegion: make(map[string]units.EmissionIntensity, len(f.Factors)),
	}
	if t.fallback == "" {
		t.fallback = DefaultRegion
	}
	for i, fc := range f.Factors {
		key := normalize(fc.Region)
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyRegion, i)
		}
		if _, dup := t.byRegion[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, fc.Region)
		}
		in, err := ParseIntensity(fc.Value, fc.Unit)
		if err != nil {
			return nil, fmt.Errorf("grid: region %s: %w", fc.Region, err)
		}
		t.byRegion[key] = in
	}
	if _, ok := t.byRegion[t.fallback]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFallback, t.fallback)
	}
	return t, nil
}

// Default returns the table embedded in the binary. It is parsed once.
var Default = sync.OnceValue(func() *Table {
	t, err := Load(bytes.NewReader(defaultFactors))
	if err != nil {
		panic(err)
	}
	return t
})

// Lookup returns the intensity of region.
func (t *Table) Lookup(region string) (units.EmissionIntensity, bool) {
	in, ok := t.byRegion[normalize(region)]
	return in, ok
}

// Resolve returns the intensity of region, or of the fallback region when it
// is unknown. The second value is the region actually used.
func (t *Table) Resolve(region string) (units.EmissionIntensity, string) {
	if in, ok := t.Lookup(region); ok {
		return in, normalize(region)
	}
	return t.byRegion[t.fallback], t.fallback
}

// Regions returns all region keys, sorted.
func (t *Table) Regions() []string {
	out := make([]string, 0, len(t.byRegion))
	for k := range t.byRegion {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func normalize(region string) string { return strings.ToLower(strings.TrimSpace(region)) }
