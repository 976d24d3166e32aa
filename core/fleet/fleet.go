package fleet

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecodispatch/core/model"
)

//go:embed data/fleet.yaml
var defaultUnits []byte

//go:embed data/hydro.yaml
var defaultHydro []byte

// Fleet is the ordered list of generating units.
type Fleet struct {
	units []model.GeneratingUnit
	index map[string]int
}

// New validates units and builds a Fleet preserving their order.
func New(units []model.GeneratingUnit) (*Fleet, error) {
	f := &Fleet{units: make([]model.GeneratingUnit, len(units)), index: make(map[string]int, len(units))}
	for i, u := range units {
		if err := u.Validate(); err != nil {
			return nil, err
		}
		if _, dup := f.index[u.Name]; dup {
			return nil, fmt.Errorf("duplicate unit %q", u.Name)
		}
		f.units[i] = u
		f.index[u.Name] = i
	}
	return f, nil
}

// DecodeUnits reads a YAML fleet definition.
func DecodeUnits(r io.Reader) (*Fleet, error) {
	var doc struct {
		Units []model.GeneratingUnit `yaml:"units"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode fleet: %w", err)
	}
	if len(doc.Units) == 0 {
		return nil, fmt.Errorf("fleet has no units")
	}
	return New(doc.Units)
}

// Units returns a copy of the units in declaration order.
func (f *Fleet) Units() []model.GeneratingUnit {
	out := make([]model.GeneratingUnit, len(f.units))
	copy(out, f.units)
	return out
}

// Enabled returns the enabled units in declaration order.
func (f *Fleet) Enabled() []model.GeneratingUnit {
	out := make([]model.GeneratingUnit, 0, len(f.units))
	for _, u := range f.units {
		if u.Enabled {
			out = append(out, u)
		}
	}
	return out
}

// Unit looks up a unit by name.
func (f *Fleet) Unit(name string) (model.GeneratingUnit, bool) {
	i, ok := f.index[name]
	if !ok {
		return model.GeneratingUnit{}, false
	}
	return f.units[i], true
}

// Len returns the number of units, enabled or not.
func (f *Fleet) Len() int { return len(f.units) }

// WithInterconnectPrice returns a copy of the fleet where every interconnect
// unit costs price LKR/kWh. The receiver is left untouched.
func (f *Fleet) WithInterconnectPrice(price float64) *Fleet {
	cp := &Fleet{units: f.Units(), index: f.index}
	for i := range cp.units {
		if cp.units[i].Category == model.CategoryInterconnect {
			cp.units[i].CostPerKWh = price
		}
	}
	return cp
}

// Load builds the fleet and hydro table from cfg, falling back to the
// embedded reference data for unset paths.
func Load(cfg Config) (*Fleet, *HydroTable, error) {
	unitsSrc, err := source(cfg.UnitsFile, defaultUnits)
	if err != nil {
		return nil, nil, err
	}
	f, err := DecodeUnits(bytes.NewReader(unitsSrc))
	if err != nil {
		return nil, nil, err
	}
	if cfg.EnableInterconnect {
		for i := range f.units {
			if f.units[i].Category == model.CategoryInterconnect {
				f.units[i].Enabled = true
			}
		}
	}
	hydroSrc, err := source(cfg.HydroFile, defaultHydro)
	if err != nil {
		return nil, nil, err
	}
	table, err := DecodeHydroTable(bytes.NewReader(hydroSrc))
	if err != nil {
		return nil, nil, err
	}
	return f, table, nil
}

// Default returns the embedded reference fleet and hydro table.
func Default() (*Fleet, *HydroTable) {
	f, t, err := Load(Config{})
	if err != nil {
		panic(fmt.Sprintf("embedded fleet data is invalid: %v", err))
	}
	return f, t
}

func source(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
