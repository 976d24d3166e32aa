// Package export writes dispatch records in machine readable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/pkg/report"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name. An empty name selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (text, json, csv, html)", s)
	}
}

// Write renders rec to w in the given format.
func Write(w io.Writer, f Format, rec logging.LogRecord) error {
	switch f {
	case FormatText, "":
		return report.WriteTable(w, rec.Request, rec.Result)
	case FormatJSON:
		return WriteJSON(w, rec)
	case FormatCSV:
		return WriteCSV(w, rec)
	case FormatHTML:
		return WriteHTML(w, rec)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteJSON writes the record as indented JSON.
func WriteJSON(w io.Writer, rec logging.LogRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// WriteCSV writes one row per unit, in dispatch order.
func WriteCSV(w io.Writer, rec logging.LogRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"unit", "category", "full_capacity_mw", "available_mw", "dispatched_mw", "cost_lkr_per_kwh", "hourly_cost_lkr"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range rec.Result.Allocations {
		row := []string{
			a.Unit,
			string(a.Category),
			formatFloat(a.FullCapacity),
			formatFloat(a.AvailableMW),
			formatFloat(a.DispatchedMW),
			formatFloat(a.CostPerKWh),
			formatFloat(a.HourlyCost),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHTML renders a bar chart of available and dispatched MW for every
// unit with available capacity.
func WriteHTML(w io.Writer, rec logging.LogRecord) error {
	req := rec.Request
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Economic dispatch: %s MW, %s %s", report.Demand(req.DemandMW), req.Month.Title(), req.Hour.Label()),
			Subtitle: fmt.Sprintf("Total cost %s LKR/h, unmet %.2f MW", report.Money(rec.Result.TotalCost), rec.Result.UnmetMW),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Unit", AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "MW"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	var (
		names      []string
		available  []opts.BarData
		dispatched []opts.BarData
	)
	for _, a := range rec.Result.Allocations {
		if a.AvailableMW <= 0 && a.DispatchedMW <= 0 {
			continue
		}
		names = append(names, a.Unit)
		available = append(available, opts.BarData{Value: round2(a.AvailableMW)})
		dispatched = append(dispatched, opts.BarData{Value: round2(a.DispatchedMW)})
	}
	bar.SetXAxis(names).
		AddSeries("Available (MW)", available).
		AddSeries("Dispatched (MW)", dispatched)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}
