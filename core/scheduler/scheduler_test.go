package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecodispatch/core/availability"
	"github.com/kilianp07/ecodispatch/core/dispatch"
	"github.com/kilianp07/ecodispatch/core/fleet"
	"github.com/kilianp07/ecodispatch/core/model"
)

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	f, table := fleet.Default()
	mgr, err := dispatch.NewManager(availability.NewResolver(f, table), dispatch.NewAllocator(dispatch.DefaultBlockGroup()), nil)
	require.NoError(t, err)
	return &Scheduler{Runner: mgr}
}

func TestGeneratePlanOrdersHoursAndTotals(t *testing.T) {
	s := newScheduler(t)
	p := Profile{Month: "jan", Hours: []HourDemand{
		{Hour: 19, DemandMW: 700},
		{Hour: 12, DemandMW: 50},
	}}
	plan, err := s.GeneratePlan(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, plan.Hours, 2)
	assert.Equal(t, model.Hour(12), plan.Hours[0].Hour)
	assert.Equal(t, model.Hour(19), plan.Hours[1].Hour)
	assert.Equal(t, model.SeasonDry, plan.Season)

	assert.InDelta(t, plan.Hours[0].TotalCost+plan.Hours[1].TotalCost, plan.TotalCost, 1e-6)
	assert.InDelta(t, 750, plan.EnergyMWh, 1e-6)
	assert.Zero(t, plan.UnmetMWh)

	var noon float64
	for _, e := range plan.Entries {
		if e.Hour == 12 {
			noon += e.MW
		}
	}
	assert.InDelta(t, 50, noon, 1e-6)
	assert.Greater(t, plan.AverageCost(), 0.0)
}

func TestGeneratePlanUnmet(t *testing.T) {
	s := newScheduler(t)
	plan, err := s.GeneratePlan(context.Background(), Profile{Month: "feb", Hours: []HourDemand{{Hour: 2, DemandMW: 100000}}})
	require.NoError(t, err)
	assert.Greater(t, plan.UnmetMWh, 0.0)
}

func TestGeneratePlanInvalidProfiles(t *testing.T) {
	s := newScheduler(t)
	tests := []struct {
		name string
		p    Profile
		want error
	}{
		{"empty", Profile{Month: "jan"}, nil},
		{"month", Profile{Month: "foo", Hours: []HourDemand{{Hour: 1, DemandMW: 10}}}, model.ErrInvalidMonth},
		{"hour", Profile{Month: "jan", Hours: []HourDemand{{Hour: 25, DemandMW: 10}}}, model.ErrInvalidHour},
		{"duplicate", Profile{Month: "jan", Hours: []HourDemand{{Hour: 3, DemandMW: 10}, {Hour: 3, DemandMW: 20}}}, model.ErrInvalidHour},
		{"demand", Profile{Month: "jan", Hours: []HourDemand{{Hour: 3, DemandMW: 0}}}, model.ErrInvalidDemand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.GeneratePlan(context.Background(), tt.p)
			require.Error(t, err)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), err)
			}
		})
	}
}

func TestGeneratePlanCanceled(t *testing.T) {
	s := newScheduler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.GeneratePlan(ctx, Profile{Month: "jan", Hours: []HourDemand{{Hour: 1, DemandMW: 10}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeProfile(t *testing.T) {
	data := "month: jul\nindian_link_price: 30\nhours:\n  - hour: 1\n    demand_mw: 900\n  - hour: 2\n    demand_mw: 850\n"
	p, err := DecodeProfile(strings.NewReader(data), "yaml")
	require.NoError(t, err)
	assert.Equal(t, "jul", p.Month)
	assert.Equal(t, 30.0, p.IndianLinkPrice)
	require.Len(t, p.Hours, 2)
	assert.Equal(t, 850.0, p.Hours[1].DemandMW)

	_, err = DecodeProfile(strings.NewReader("{}"), "toml")
	assert.Error(t, err)
}

func TestLoadProfileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"month":"mar","hours":[{"hour":19,"demand_mw":2100}]}`), 0o644))
	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "mar", p.Month)
	assert.Equal(t, 19, p.Hours[0].Hour)
}
