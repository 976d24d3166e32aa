package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/ecodispatch/core/scheduler"
	"github.com/kilianp07/ecodispatch/pkg/report"
)

// WritePlan renders a day plan to w in the given format.
func WritePlan(w io.Writer, f Format, plan scheduler.Plan) error {
	switch f {
	case FormatText, "":
		return writePlanText(w, plan)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case FormatCSV:
		return writePlanCSV(w, plan)
	case FormatHTML:
		return writePlanHTML(w, plan)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func writePlanText(w io.Writer, plan scheduler.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Day plan: %s (%s season)\n\n", plan.Month.Title(), plan.Season.Title())
	fmt.Fprintf(tw, "Hour\tDemand (MW)\tDispatched (MW)\tUnmet (MW)\tCost (LKR/h)\n")
	for _, h := range plan.Hours {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\n",
			h.Hour.Label(), h.DemandMW, h.DispatchedMW, h.UnmetMW, report.Money(h.TotalCost))
	}
	fmt.Fprintf(tw, "\nEnergy dispatched: %.2f MWh\n", plan.EnergyMWh)
	fmt.Fprintf(tw, "Total cost: LKR %s\n", report.Money(plan.TotalCost))
	fmt.Fprintf(tw, "Average cost: LKR %.2f/kWh\n", plan.AverageCost())
	if plan.UnmetMWh > 0 {
		fmt.Fprintf(tw, "WARNING: %.2f MWh of demand could not be met\n", plan.UnmetMWh)
	}
	return tw.Flush()
}

// writePlanCSV writes one row per dispatched unit and hour.
func writePlanCSV(w io.Writer, plan scheduler.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"hour", "unit", "category", "mw", "hourly_cost_lkr"}); err != nil {
		return err
	}
	for _, e := range plan.Entries {
		row := []string{strconv.Itoa(int(e.Hour)), e.Unit, string(e.Category), formatFloat(e.MW), formatFloat(e.HourlyCost)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePlanHTML(w io.Writer, plan scheduler.Plan) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Day plan: %s", plan.Month.Title()),
			Subtitle: fmt.Sprintf("Total cost %s LKR, unmet %.2f MWh", report.Money(plan.TotalCost), plan.UnmetMWh),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "MW"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	var (
		hours      []string
		demand     []opts.BarData
		dispatched []opts.BarData
	)
	for _, h := range plan.Hours {
		hours = append(hours, h.Hour.Label())
		demand = append(demand, opts.BarData{Value: round2(h.DemandMW)})
		dispatched = append(dispatched, opts.BarData{Value: round2(h.DispatchedMW)})
	}
	bar.SetXAxis(hours).
		AddSeries("Demand (MW)", demand).
		AddSeries("Dispatched (MW)", dispatched)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
