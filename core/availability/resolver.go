package availability

import (
	"github.com/kilianp07/ecodispatch/core/fleet"
	"github.com/kilianp07/ecodispatch/core/model"
)

// SolarUnit is the name of the renewable unit following the solar curve.
const SolarUnit = "Solar"

// DefaultMiniHydroWetFactor is the midpoint of the 70-80% wet-season band.
const DefaultMiniHydroWetFactor = 0.75

// Resolver computes available capacities against a read-only fleet and hydro
// table. It is safe for concurrent use.
type Resolver struct {
	fleet        *fleet.Fleet
	table        *fleet.HydroTable
	strict       bool
	miniHydroWet float64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrictHydroTable makes hydro units absent from a month's table
// unavailable instead of running at full capacity.
func WithStrictHydroTable(strict bool) Option {
	return func(r *Resolver) { r.strict = strict }
}

// WithMiniHydroWetFactor overrides the wet-season mini-hydro factor.
func WithMiniHydroWetFactor(f float64) Option {
	return func(r *Resolver) {
		if f >= 0 && f <= 1 {
			r.miniHydroWet = f
		}
	}
}

// NewResolver returns a Resolver for the given fleet and hydro table.
func NewResolver(f *fleet.Fleet, table *fleet.HydroTable, opts ...Option) *Resolver {
	r := &Resolver{fleet: f, table: table, miniHydroWet: DefaultMiniHydroWetFactor}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Fleet returns the fleet the resolver works on.
func (r *Resolver) Fleet() *fleet.Fleet { return r.fleet }

// Resolve validates month and hour and returns a snapshot of every enabled
// unit with its available capacity, in declaration order.
func (r *Resolver) Resolve(month string, hour int) ([]model.ResolvedUnit, error) {
	h, err := model.ValidateHour(hour)
	if err != nil {
		return nil, err
	}
	m, err := model.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return r.ResolveUnits(r.fleet.Enabled(), m, h), nil
}

// Capacities returns the available MW per unit name.
func (r *Resolver) Capacities(month string, hour int) (map[string]float64, error) {
	units, err := r.Resolve(month, hour)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(units))
	for _, u := range units {
		out[u.Name] = u.AvailableMW
	}
	return out, nil
}

// ResolveUnits applies the availability rules to units for an already
// validated month and hour. The input slice is not modified.
func (r *Resolver) ResolveUnits(units []model.GeneratingUnit, month model.Month, hour model.Hour) []model.ResolvedUnit {
	out := make([]model.ResolvedUnit, len(units))
	for i, u := range units {
		out[i] = model.ResolvedUnit{GeneratingUnit: u, AvailableMW: r.available(u, month, hour)}
	}
	return out
}

func (r *Resolver) available(u model.GeneratingUnit, month model.Month, hour model.Hour) float64 {
	switch {
	case u.Category == model.CategoryHydro:
		if mw, ok := r.table.Lookup(month, u.Name); ok {
			return nonNegative(mw)
		}
		if r.strict {
			return 0
		}
		return u.FullCapacityMW
	case u.Category == model.CategoryMiniHydro:
		if month.Season() == model.SeasonDry {
			return 0
		}
		return u.FullCapacityMW * r.miniHydroWet
	case u.Category == model.CategoryRenewable && u.Name == SolarUnit:
		return SolarOutput(int(hour), u.FullCapacityMW)
	default:
		return u.FullCapacityMW
	}
}

// Ceiling returns the upper bound of a unit's available capacity: its full
// capacity, or the metered value when the hydro table reports more.
func (r *Resolver) Ceiling(u model.GeneratingUnit, month model.Month) float64 {
	if u.Category == model.CategoryHydro {
		if mw, ok := r.table.Lookup(month, u.Name); ok && mw > u.FullCapacityMW {
			return mw
		}
	}
	return u.FullCapacityMW
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
