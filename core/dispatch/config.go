package dispatch

import (
	"fmt"

	"github.com/kilianp07/ecodispatch/core/model"
)

// BlockGroup describes a plant group dispatched in fixed blocks.
type BlockGroup struct {
	Category model.Category `json:"category"`
	// CeilingMW caps the group's aggregate dispatch regardless of the
	// units' available capacity.
	CeilingMW float64 `json:"ceiling_mw"`
	// StepMW is the fixed allocation given to each running unit.
	StepMW float64 `json:"step_mw"`
	// MinBlockMW is the minimum running output of a unit. A unit's own
	// MinBlockMW takes precedence when set.
	MinBlockMW float64 `json:"min_block_mw"`
}

// DefaultBlockGroup returns the LVPS settings of the reference system.
func DefaultBlockGroup() BlockGroup {
	return BlockGroup{Category: model.CategoryLVPS, CeilingMW: 600, StepMW: 200, MinBlockMW: 180}
}

// Config defines dispatch-related settings.
type Config struct {
	BlockGroup BlockGroup `json:"block_group"`
	// MiniHydroWetFactor overrides the wet-season mini-hydro factor when
	// non-zero.
	MiniHydroWetFactor float64 `json:"mini_hydro_wet_factor"`
}

// SetDefaults fills unset block group fields with the reference values.
func (c *Config) SetDefaults() {
	def := DefaultBlockGroup()
	if c.BlockGroup.Category == "" {
		c.BlockGroup.Category = def.Category
	}
	if c.BlockGroup.CeilingMW == 0 {
		c.BlockGroup.CeilingMW = def.CeilingMW
	}
	if c.BlockGroup.StepMW == 0 {
		c.BlockGroup.StepMW = def.StepMW
	}
	if c.BlockGroup.MinBlockMW == 0 {
		c.BlockGroup.MinBlockMW = def.MinBlockMW
	}
}

// Validate checks the block group settings are consistent.
func (c Config) Validate() error {
	g := c.BlockGroup
	if !g.Category.Valid() {
		return fmt.Errorf("block group: unknown category %q", g.Category)
	}
	if g.CeilingMW < 0 || g.StepMW <= 0 || g.MinBlockMW < 0 {
		return fmt.Errorf("block group: ceiling, step and min block must be positive")
	}
	if g.MinBlockMW > g.StepMW {
		return fmt.Errorf("block group: min block %.0f exceeds step %.0f", g.MinBlockMW, g.StepMW)
	}
	if c.MiniHydroWetFactor < 0 || c.MiniHydroWetFactor > 1 {
		return fmt.Errorf("mini_hydro_wet_factor must be within [0,1]")
	}
	return nil
}
