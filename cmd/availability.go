package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecodispatch/app"
	"github.com/kilianp07/ecodispatch/core/model"
	"github.com/kilianp07/ecodispatch/pkg/report"
)

var availabilityOpts struct {
	month  string
	hour   int
	asJSON bool
}

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Show the available capacity of every unit for a month and hour",
	RunE:  runAvailability,
}

func init() {
	f := availabilityCmd.Flags()
	f.StringVar(&availabilityOpts.month, "month", "", "month as a 3-letter code (jan..dec)")
	f.IntVar(&availabilityOpts.hour, "hour", 0, "hour 1-24")
	f.BoolVar(&availabilityOpts.asJSON, "json", false, "print unit capacities as JSON")
	_ = availabilityCmd.MarkFlagRequired("month")
	_ = availabilityCmd.MarkFlagRequired("hour")
	rootCmd.AddCommand(availabilityCmd)
}

func runAvailability(cmd *cobra.Command, _ []string) error {
	return withService(func(svc *app.Service) error {
		resolver := svc.Manager.Resolver()
		if availabilityOpts.asJSON {
			caps, err := resolver.Capacities(availabilityOpts.month, availabilityOpts.hour)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(caps)
		}
		units, err := resolver.Resolve(availabilityOpts.month, availabilityOpts.hour)
		if err != nil {
			return err
		}
		month, _ := model.ParseMonth(availabilityOpts.month)
		return report.WriteAvailability(cmd.OutOrStdout(), month, model.Hour(availabilityOpts.hour), units)
	})
}
