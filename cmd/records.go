package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/model"
	"github.com/kilianp07/ecodispatch/pkg/report"
)

var recordsOpts struct {
	start     string
	end       string
	month     string
	unit      string
	shortfall bool
	asJSON    bool
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Query stored dispatch runs",
	RunE:  runRecords,
}

func init() {
	f := recordsCmd.Flags()
	f.StringVar(&recordsOpts.start, "start", "", "only runs at or after this RFC3339 time")
	f.StringVar(&recordsOpts.end, "end", "", "only runs at or before this RFC3339 time")
	f.StringVar(&recordsOpts.month, "month", "", "only runs for this month")
	f.StringVar(&recordsOpts.unit, "unit", "", "only runs dispatching this unit")
	f.BoolVar(&recordsOpts.shortfall, "shortfall", false, "only runs with unmet demand")
	f.BoolVar(&recordsOpts.asJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(recordsCmd)
}

func recordsQuery() (logging.LogQuery, error) {
	q := logging.LogQuery{Unit: recordsOpts.unit, ShortfallOnly: recordsOpts.shortfall}
	var err error
	if recordsOpts.start != "" {
		if q.Start, err = time.Parse(time.RFC3339, recordsOpts.start); err != nil {
			return q, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if recordsOpts.end != "" {
		if q.End, err = time.Parse(time.RFC3339, recordsOpts.end); err != nil {
			return q, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if recordsOpts.month != "" {
		if q.Month, err = model.ParseMonth(recordsOpts.month); err != nil {
			return q, err
		}
	}
	return q, nil
}

func runRecords(cmd *cobra.Command, _ []string) error {
	q, err := recordsQuery()
	if err != nil {
		return err
	}
	store, err := logging.NewStore(cfg.Records)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if recordsOpts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	if _, err := fmt.Fprintf(out, "%-36s %-20s %-5s %-12s %12s %12s %18s %10s\n",
		"ID", "Time", "Month", "Hour", "Demand (MW)", "Dispatched", "Cost (LKR/h)", "Unmet"); err != nil {
		return err
	}
	for _, r := range recs {
		if _, err := fmt.Fprintf(out, "%-36s %-20s %-5s %-12s %12.2f %12.2f %18s %10.2f\n",
			r.ID, r.Timestamp.Format(time.DateTime), r.Request.Month, r.Request.Hour.Label(),
			r.Request.DemandMW, r.Result.DispatchMW, report.Money(r.Result.TotalCost), r.Result.UnmetMW); err != nil {
			return err
		}
	}
	return nil
}
