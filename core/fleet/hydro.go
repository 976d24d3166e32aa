package fleet

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecodispatch/core/model"
)

// HydroTable maps a month to the available MW of each hydro unit.
type HydroTable struct {
	months map[model.Month]map[string]float64
}

// NewHydroTable builds a table from raw data, validating month keys and values.
func NewHydroTable(raw map[string]map[string]float64) (*HydroTable, error) {
	t := &HydroTable{months: make(map[model.Month]map[string]float64, len(raw))}
	for key, units := range raw {
		m, err := model.ParseMonth(key)
		if err != nil {
			return nil, fmt.Errorf("hydro table: %w", err)
		}
		cp := make(map[string]float64, len(units))
		for name, mw := range units {
			if mw < 0 {
				return nil, fmt.Errorf("hydro table: %s/%s is negative", m, name)
			}
			cp[name] = mw
		}
		t.months[m] = cp
	}
	return t, nil
}

// DecodeHydroTable reads a YAML hydro table.
func DecodeHydroTable(r io.Reader) (*HydroTable, error) {
	var raw map[string]map[string]float64
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode hydro table: %w", err)
	}
	return NewHydroTable(raw)
}

// Lookup returns the metered MW of unit in month and whether an entry exists.
func (t *HydroTable) Lookup(month model.Month, unit string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	units, ok := t.months[month]
	if !ok {
		return 0, false
	}
	mw, ok := units[unit]
	return mw, ok
}

// HasMonth reports whether the table carries an entry for month.
func (t *HydroTable) HasMonth(month model.Month) bool {
	if t == nil {
		return false
	}
	_, ok := t.months[month]
	return ok
}

// Units returns the unit names listed for month, sorted.
func (t *HydroTable) Units(month model.Month) []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.months[month]))
	for n := range t.months[month] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
