package market

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/ecodispatch/core/model"
)

// HourPrice is the import price for one hour in LKR/kWh.
type HourPrice struct {
	Hour  int     `json:"hour"`
	Price float64 `json:"price"`
}

// Schedule is the price API response for one unit and month.
type Schedule struct {
	Unit     string      `json:"unit"`
	Month    model.Month `json:"month"`
	Currency string      `json:"currency"`
	Prices   []HourPrice `json:"prices"`
}

// At returns the price for hour h.
func (s *Schedule) At(h model.Hour) (float64, bool) {
	for _, p := range s.Prices {
		if p.Hour == int(h) {
			return p.Price, true
		}
	}
	return 0, false
}

// Sorted returns the prices ordered by hour.
func (s *Schedule) Sorted() []HourPrice {
	out := append([]HourPrice(nil), s.Prices...)
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// PriceChartHTML renders the schedule as a line chart.
func (s *Schedule) PriceChartHTML() (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s price, %s", s.Unit, s.Month.Title())}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "LKR/kWh"}),
	)

	var xAxis []string
	var yAxis []opts.LineData
	for _, p := range s.Sorted() {
		xAxis = append(xAxis, model.Hour(p.Hour).Label())
		yAxis = append(yAxis, opts.LineData{Value: p.Price})
	}
	line.SetXAxis(xAxis).AddSeries("Price", yAxis)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}
