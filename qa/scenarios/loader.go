// Package scenarios runs data-driven dispatch scenarios against the full
// manager stack: reference fleet, Prometheus sink, mock setpoint publisher
// and event bus.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecodispatch/core/model"
)

// RequestDef is the raw request of a scenario. It is validated the same
// way CLI input is.
type RequestDef struct {
	DemandMW        float64 `yaml:"demand_mw"`
	Month           string  `yaml:"month"`
	Hour            int     `yaml:"hour"`
	IndianLinkPrice float64 `yaml:"indian_link_price,omitempty"`
}

func (r RequestDef) ToModel() (model.Request, error) {
	return model.ParseRequest(r.DemandMW, r.Month, r.Hour, r.IndianLinkPrice)
}

// Expected holds the checks of a scenario. Units missing from PerUnit are
// expected to dispatch 0 MW.
type Expected struct {
	Error     string             `yaml:"error,omitempty"`
	PerUnit   map[string]float64 `yaml:"per_unit"`
	TotalCost float64            `yaml:"total_cost"`
	UnmetMW   float64            `yaml:"unmet_mw"`
	Shortfall bool               `yaml:"shortfall"`
	Published int                `yaml:"published"`
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Request     RequestDef `yaml:"request"`
	FailUnits   []string   `yaml:"fail_units,omitempty"`
	Expected    Expected   `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
