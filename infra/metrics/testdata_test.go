package metrics

import (
	"time"

	coremetrics "github.com/kilianp07/ecodispatch/core/metrics"
	"github.com/kilianp07/ecodispatch/core/model"
)

func sampleEvent(now time.Time) coremetrics.DispatchEvent {
	return coremetrics.DispatchEvent{
		RunID:   "run-1",
		Request: model.Request{DemandMW: 80, Month: "jan", Hour: 12},
		Result: model.DispatchResult{
			PerUnit: map[string]float64{"Victoria": 50, "Kotmale": 0},
			Allocations: []model.Allocation{
				{Unit: "Victoria", Category: model.CategoryHydro, AvailableMW: 50, DispatchedMW: 50, CostPerKWh: 2.54, HourlyCost: 127000},
				{Unit: "Kotmale", Category: model.CategoryHydro, AvailableMW: 0, DispatchedMW: 0, CostPerKWh: 3},
			},
			DemandMW:   80,
			DispatchMW: 50,
			TotalCost:  127000,
			UnmetMW:    30,
			CapacityMW: 50,
		},
		Duration: 3 * time.Millisecond,
		Time:     now,
	}
}
