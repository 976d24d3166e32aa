package model

import "fmt"

// Category determines which availability rule applies to a generating unit.
type Category string

const (
	CategoryHydro        Category = "hydro"
	CategoryMiniHydro    Category = "mini_hydro"
	CategoryThermal      Category = "thermal"
	CategoryLVPS         Category = "lvps"
	CategoryRenewable    Category = "renewable"
	CategoryInterconnect Category = "interconnect"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryHydro, CategoryMiniHydro, CategoryThermal, CategoryLVPS, CategoryRenewable, CategoryInterconnect:
		return true
	default:
		return false
	}
}

// Title returns the display form used in reports, e.g. "Mini Hydro".
func (c Category) Title() string {
	switch c {
	case CategoryHydro:
		return "Hydro"
	case CategoryMiniHydro:
		return "Mini Hydro"
	case CategoryThermal:
		return "Thermal"
	case CategoryLVPS:
		return "Lvps"
	case CategoryRenewable:
		return "Renewable"
	case CategoryInterconnect:
		return "Interconnect"
	default:
		return string(c)
	}
}

// GeneratingUnit describes one dispatchable source. Units are immutable once
// the fleet is loaded.
type GeneratingUnit struct {
	Name           string   `json:"name" yaml:"name"`
	FullCapacityMW float64  `json:"full_capacity_mw" yaml:"full_capacity_mw"`
	CostPerKWh     float64  `json:"cost_per_kwh" yaml:"cost_per_kwh"` // LKR/kWh
	Category       Category `json:"category" yaml:"category"`
	MinBlockMW     float64  `json:"min_block_mw,omitempty" yaml:"min_block_mw,omitempty"`
	Enabled        bool     `json:"enabled" yaml:"enabled"`
}

// Validate checks that the unit description is sound.
func (u GeneratingUnit) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("unit name is required")
	}
	if !u.Category.Valid() {
		return fmt.Errorf("unit %s: unknown category %q", u.Name, u.Category)
	}
	if u.FullCapacityMW < 0 {
		return fmt.Errorf("unit %s: full capacity must not be negative", u.Name)
	}
	if u.CostPerKWh < 0 {
		return fmt.Errorf("unit %s: cost must not be negative", u.Name)
	}
	if u.MinBlockMW < 0 || u.MinBlockMW > u.FullCapacityMW {
		return fmt.Errorf("unit %s: min block %.2f out of range", u.Name, u.MinBlockMW)
	}
	return nil
}

// ResolvedUnit is a per-call snapshot of a unit with its available capacity
// for a given month and hour.
type ResolvedUnit struct {
	GeneratingUnit
	AvailableMW float64 `json:"available_mw"`
}
