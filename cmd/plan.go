package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/ecodispatch/app"
	"github.com/kilianp07/ecodispatch/core/scheduler"
	"github.com/kilianp07/ecodispatch/pkg/export"
)

var planOpts struct {
	profile string
	format  string
}

var planCmd = &cobra.Command{
	Use:     "plan",
	Short:   "Dispatch every hour of a daily demand profile",
	Example: "  ecodispatch plan --profile day.yaml --format csv",
	RunE:    runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planOpts.profile, "profile", "", "demand profile file (YAML or JSON)")
	f.StringVarP(&planOpts.format, "format", "f", "text", "output format: text, json, csv or html")
	_ = planCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(planOpts.format)
	if err != nil {
		return err
	}
	profile, err := scheduler.LoadProfile(planOpts.profile)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	return withService(func(svc *app.Service) error {
		s := scheduler.Scheduler{Runner: svc.Manager}
		plan, err := s.GeneratePlan(ctx, profile)
		if err != nil {
			return err
		}
		return export.WritePlan(cmd.OutOrStdout(), format, plan)
	})
}
