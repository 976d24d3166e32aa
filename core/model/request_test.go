package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(700, "Jun", 12, 30)
	require.NoError(t, err)
	assert.Equal(t, Month("jun"), req.Month)
	assert.Equal(t, Hour(12), req.Hour)
	assert.Equal(t, SeasonWet, req.Season())
	assert.Equal(t, 30.0, req.IndianLinkPrice)
}

func TestParseRequest_Errors(t *testing.T) {
	cases := []struct {
		name   string
		demand float64
		month  string
		hour   int
		price  float64
		want   error
	}{
		{"zero demand", 0, "jan", 1, 0, ErrInvalidDemand},
		{"negative demand", -5, "jan", 1, 0, ErrInvalidDemand},
		{"nan demand", math.NaN(), "jan", 1, 0, ErrInvalidDemand},
		{"bad month", 10, "xyz", 1, 0, ErrInvalidMonth},
		{"hour zero", 10, "jan", 0, 0, ErrInvalidHour},
		{"hour 25", 10, "jan", 25, 0, ErrInvalidHour},
		{"nan price", 10, "jan", 1, math.NaN(), ErrInvalidPrice},
		{"infinite price", 10, "jan", 1, math.Inf(1), ErrInvalidPrice},
		{"negative price", 10, "jan", 1, -3, ErrInvalidPrice},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseRequest(c.demand, c.month, c.hour, c.price)
			assert.ErrorIs(t, err, c.want)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestGeneratingUnitValidate(t *testing.T) {
	ok := GeneratingUnit{Name: "LVPS 1", FullCapacityMW: 300, CostPerKWh: 25, Category: CategoryLVPS, MinBlockMW: 180}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Category = "nuclear"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.MinBlockMW = 400
	assert.Error(t, bad.Validate())
}

func TestDispatchResultHelpers(t *testing.T) {
	r := DispatchResult{
		DemandMW:  100,
		TotalCost: 254000,
		UnmetMW:   0,
		Allocations: []Allocation{
			{Unit: "a", DispatchedMW: 100},
			{Unit: "b"},
		},
	}
	assert.InDelta(t, 2.54, r.AverageCost(), 1e-9)
	assert.False(t, r.Shortfall())
	assert.Len(t, r.Dispatched(), 1)
}
