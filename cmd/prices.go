package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecodispatch/app"
	"github.com/kilianp07/ecodispatch/connectors"
	"github.com/kilianp07/ecodispatch/connectors/clients/market"
	"github.com/kilianp07/ecodispatch/core/model"
)

var pricesOpts struct {
	month string
	chart string
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the hourly Indian Link price from the configured price source",
	RunE:  runPrices,
}

func init() {
	f := pricesCmd.Flags()
	f.StringVar(&pricesOpts.month, "month", "", "month as a 3-letter code (jan..dec)")
	f.StringVar(&pricesOpts.chart, "chart", "", "write an HTML line chart to this file")
	_ = pricesCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(pricesCmd)
}

func runPrices(cmd *cobra.Command, _ []string) error {
	month, err := model.ParseMonth(pricesOpts.month)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	return withService(func(svc *app.Service) error {
		if svc.Prices == nil {
			return errors.New("no price source configured (pricing.source)")
		}
		sched := &market.Schedule{Unit: cfg.Pricing.Unit, Month: month, Currency: "LKR"}
		for h := 1; h <= 24; h++ {
			p, err := svc.Prices.Price(ctx, month, model.Hour(h))
			if errors.Is(err, connectors.ErrNoPrice) {
				continue
			}
			if err != nil {
				return err
			}
			sched.Prices = append(sched.Prices, market.HourPrice{Hour: h, Price: p})
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Hour\tPrice (LKR/kWh)\n")
		for _, p := range sched.Sorted() {
			fmt.Fprintf(tw, "%s\t%.2f\n", model.Hour(p.Hour).Label(), p.Price)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if pricesOpts.chart == "" {
			return nil
		}
		html, err := sched.PriceChartHTML()
		if err != nil {
			return err
		}
		return os.WriteFile(pricesOpts.chart, []byte(html), 0o644)
	})
}
