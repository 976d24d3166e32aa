package scheduler

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/model"
)

// Runner executes a single dispatch.
type Runner interface {
	Run(ctx context.Context, req model.Request) (logging.LogRecord, error)
}

// Entry is the dispatch of one unit in one hour.
type Entry struct {
	Hour       model.Hour     `json:"hour"`
	Unit       string         `json:"unit"`
	Category   model.Category `json:"category"`
	MW         float64        `json:"mw"`
	HourlyCost float64        `json:"hourly_cost"`
}

// HourSummary totals one hour of the plan.
type HourSummary struct {
	Hour         model.Hour `json:"hour"`
	RunID        string     `json:"run_id"`
	DemandMW     float64    `json:"demand_mw"`
	DispatchedMW float64    `json:"dispatched_mw"`
	UnmetMW      float64    `json:"unmet_mw"`
	TotalCost    float64    `json:"total_cost"`
}

// Plan is a day of hourly dispatches.
type Plan struct {
	Month     model.Month   `json:"month"`
	Season    model.Season  `json:"season"`
	Hours     []HourSummary `json:"hours"`
	Entries   []Entry       `json:"entries"`
	EnergyMWh float64       `json:"energy_mwh"`
	UnmetMWh  float64       `json:"unmet_mwh"`
	TotalCost float64       `json:"total_cost"` // LKR over the day
}

// AverageCost returns the day's average cost in LKR/kWh over dispatched energy.
func (p Plan) AverageCost() float64 {
	if p.EnergyMWh <= 0 {
		return 0
	}
	return p.TotalCost / (p.EnergyMWh * 1000)
}

// Scheduler turns demand profiles into day plans.
type Scheduler struct {
	Runner Runner
}

// GeneratePlan validates the profile and dispatches every hour in
// ascending order. Unmet demand in an hour is reported, not an error.
func (s *Scheduler) GeneratePlan(ctx context.Context, p Profile) (Plan, error) {
	reqs, err := requests(p)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Month: reqs[0].Month, Season: reqs[0].Season()}
	var cost, energy, unmet []float64
	for _, req := range reqs {
		rec, err := s.Runner.Run(ctx, req)
		if err != nil {
			return Plan{}, fmt.Errorf("hour %d: %w", req.Hour, err)
		}
		res := rec.Result
		plan.Hours = append(plan.Hours, HourSummary{
			Hour:         req.Hour,
			RunID:        rec.ID,
			DemandMW:     req.DemandMW,
			DispatchedMW: res.DispatchMW,
			UnmetMW:      res.UnmetMW,
			TotalCost:    res.TotalCost,
		})
		for _, a := range res.Dispatched() {
			plan.Entries = append(plan.Entries, Entry{
				Hour:       req.Hour,
				Unit:       a.Unit,
				Category:   a.Category,
				MW:         a.DispatchedMW,
				HourlyCost: a.HourlyCost,
			})
		}
		cost = append(cost, res.TotalCost)
		energy = append(energy, res.DispatchMW)
		unmet = append(unmet, res.UnmetMW)
	}
	plan.TotalCost = floats.Sum(cost)
	plan.EnergyMWh = floats.Sum(energy)
	plan.UnmetMWh = floats.Sum(unmet)
	return plan, nil
}

func requests(p Profile) ([]model.Request, error) {
	if len(p.Hours) == 0 {
		return nil, fmt.Errorf("profile has no hours")
	}
	seen := make(map[int]bool, len(p.Hours))
	reqs := make([]model.Request, 0, len(p.Hours))
	for _, h := range p.Hours {
		if seen[h.Hour] {
			return nil, fmt.Errorf("%w: hour %d listed twice", model.ErrInvalidHour, h.Hour)
		}
		seen[h.Hour] = true
		req, err := model.ParseRequest(h.DemandMW, p.Month, h.Hour, p.IndianLinkPrice)
		if err != nil {
			return nil, fmt.Errorf("hour %d: %w", h.Hour, err)
		}
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Hour < reqs[j].Hour })
	return reqs, nil
}
