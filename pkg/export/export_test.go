package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/model"
)

func sampleRecord() logging.LogRecord {
	return logging.LogRecord{
		ID:        "run-1",
		Timestamp: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		Request:   model.Request{DemandMW: 50, Month: "jan", Hour: 12},
		Season:    model.SeasonDry,
		Result: model.DispatchResult{
			PerUnit: map[string]float64{"Victoria": 50, "Solar": 0, "Ukuwela": 0},
			Allocations: []model.Allocation{
				{Unit: "Victoria", Category: model.CategoryHydro, FullCapacity: 140, AvailableMW: 163.9554, DispatchedMW: 50, CostPerKWh: 2.54, HourlyCost: 127000},
				{Unit: "Solar", Category: model.CategoryRenewable, FullCapacity: 500, AvailableMW: 500, CostPerKWh: 20},
				{Unit: "Ukuwela", Category: model.CategoryHydro, FullCapacity: 40, AvailableMW: 0, CostPerKWh: 3},
			},
			DemandMW:   50,
			DispatchMW: 50,
			TotalCost:  127000,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)
	f, err = ParseFormat(" HTML ")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRecord()))
	var out logging.LogRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "run-1", out.ID)
	assert.Equal(t, 50.0, out.Result.PerUnit["Victoria"])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRecord()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "unit", rows[0][0])
	assert.Equal(t, []string{"Victoria", "hydro", "140", "163.9554", "50", "2.54", "127000"}, rows[1])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatHTML, sampleRecord()))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Victoria")
	assert.Contains(t, out, "Solar")
	assert.NotContains(t, out, "Ukuwela")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleRecord()))
	assert.Contains(t, buf.String(), "Economic Dispatch for 50.0 MW Demand at 12 noon")
}
