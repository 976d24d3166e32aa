package dispatch

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/ecodispatch/core/model"
)

// kWhPerMWh converts MW dispatched for one hour into kWh for costing.
const kWhPerMWh = 1000

// Dispatcher distributes demand between resolved units.
type Dispatcher interface {
	Allocate(units []model.ResolvedUnit, demand float64) model.DispatchResult
}

// Allocator is the greedy least-cost dispatcher. The zero value has no
// block group; use NewAllocator for the reference behaviour.
type Allocator struct {
	group BlockGroup
}

// NewAllocator returns an Allocator applying the given block group rule.
func NewAllocator(group BlockGroup) Allocator {
	return Allocator{group: group}
}

// BlockGroup returns the allocator's block group settings.
func (a Allocator) BlockGroup() BlockGroup { return a.group }

// Allocate assigns demand to units. It never fails: when the fleet cannot
// cover demand the remainder is returned as UnmetMW.
func (a Allocator) Allocate(units []model.ResolvedUnit, demand float64) model.DispatchResult {
	res := model.DispatchResult{
		PerUnit:     make(map[string]float64, len(units)),
		Allocations: make([]model.Allocation, 0, len(units)),
		DemandMW:    demand,
	}
	available := make([]float64, len(units))
	for i, u := range units {
		res.PerUnit[u.Name] = 0
		available[i] = u.AvailableMW
	}
	res.CapacityMW = floats.Sum(available)

	block, merit := a.partition(units)
	res.DispatchableMW = a.dispatchable(block, merit)
	remaining := demand

	for i, mw := range a.blockPass(block, demand) {
		remaining -= mw
		res.Allocations = append(res.Allocations, allocation(block[i], mw))
	}

	sort.SliceStable(merit, func(i, j int) bool {
		return merit[i].CostPerKWh < merit[j].CostPerKWh
	})
	for _, u := range merit {
		mw := 0.0
		if remaining > 0 {
			mw = math.Max(0, math.Min(u.AvailableMW, remaining))
			remaining -= mw
		}
		res.Allocations = append(res.Allocations, allocation(u, mw))
	}

	costs := make([]float64, len(res.Allocations))
	dispatched := make([]float64, len(res.Allocations))
	for i, al := range res.Allocations {
		res.PerUnit[al.Unit] = al.DispatchedMW
		costs[i] = al.HourlyCost
		dispatched[i] = al.DispatchedMW
	}
	res.TotalCost = floats.Sum(costs)
	res.DispatchMW = floats.Sum(dispatched)
	res.UnmetMW = math.Max(0, remaining)
	return res
}

// partition splits units into the block group and the merit-order group,
// both in declaration order. The merit slice is a fresh copy.
func (a Allocator) partition(units []model.ResolvedUnit) (block, merit []model.ResolvedUnit) {
	for _, u := range units {
		if a.group.Category != "" && u.Category == a.group.Category {
			block = append(block, u)
			continue
		}
		merit = append(merit, u)
	}
	return block, merit
}

// blockPass hands out the block group's share of demand, capped at the
// ceiling, in steps. A unit whose minimum exceeds what is left gets nothing.
func (a Allocator) blockPass(block []model.ResolvedUnit, demand float64) []float64 {
	out := make([]float64, len(block))
	left := math.Min(demand, a.group.CeilingMW)
	for i, u := range block {
		if left > 0 && left >= a.minBlock(u) {
			out[i] = math.Min(a.group.StepMW, left)
			left -= out[i]
		}
	}
	return out
}

// dispatchable is the most the allocator can serve: every merit-order unit
// at full availability plus the block group's output at its ceiling.
func (a Allocator) dispatchable(block, merit []model.ResolvedUnit) float64 {
	total := floats.Sum(a.blockPass(block, a.group.CeilingMW))
	for _, u := range merit {
		total += math.Max(0, u.AvailableMW)
	}
	return total
}

func (a Allocator) minBlock(u model.ResolvedUnit) float64 {
	if u.MinBlockMW > 0 {
		return u.MinBlockMW
	}
	return a.group.MinBlockMW
}

func allocation(u model.ResolvedUnit, mw float64) model.Allocation {
	return model.Allocation{
		Unit:         u.Name,
		Category:     u.Category,
		FullCapacity: u.FullCapacityMW,
		AvailableMW:  u.AvailableMW,
		DispatchedMW: mw,
		CostPerKWh:   u.CostPerKWh,
		HourlyCost:   mw * u.CostPerKWh * kWhPerMWh,
	}
}
