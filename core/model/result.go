package model

// Allocation is the dispatch decision for one unit.
type Allocation struct {
	Unit         string   `json:"unit"`
	Category     Category `json:"category"`
	FullCapacity float64  `json:"full_capacity_mw"`
	AvailableMW  float64  `json:"available_mw"`
	DispatchedMW float64  `json:"dispatched_mw"`
	CostPerKWh   float64  `json:"cost_per_kwh"`
	HourlyCost   float64  `json:"hourly_cost"` // LKR/h
}

// DispatchResult is the outcome of one dispatch computation.
type DispatchResult struct {
	// PerUnit maps every unit name to its dispatched MW, including zeros.
	PerUnit map[string]float64 `json:"per_unit"`
	// Allocations lists units in the order they were considered: block group
	// first, then merit order.
	Allocations []Allocation `json:"allocations"`
	DemandMW    float64      `json:"demand_mw"`
	DispatchMW  float64      `json:"dispatched_mw"`
	TotalCost   float64      `json:"total_cost"` // LKR/h
	UnmetMW     float64      `json:"unmet_mw"`
	// CapacityMW sums the availability of every unit.
	CapacityMW float64 `json:"system_capacity_mw"`
	// DispatchableMW is the capacity the allocator can actually use: the
	// block group counts only up to its ceiling.
	DispatchableMW float64 `json:"dispatchable_mw"`
}

// AverageCost returns the average cost in LKR/kWh over the requested demand.
func (r DispatchResult) AverageCost() float64 {
	if r.DemandMW <= 0 {
		return 0
	}
	return r.TotalCost / (r.DemandMW * 1000)
}

// Shortfall reports whether some demand could not be met.
func (r DispatchResult) Shortfall() bool { return r.UnmetMW > 0 }

// Dispatched returns the allocations with a positive dispatch, in order.
func (r DispatchResult) Dispatched() []Allocation {
	var out []Allocation
	for _, a := range r.Allocations {
		if a.DispatchedMW > 0 {
			out = append(out, a)
		}
	}
	return out
}
