package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecodispatch/app"
	"github.com/kilianp07/ecodispatch/core/model"
	"github.com/kilianp07/ecodispatch/pkg/export"
	"github.com/kilianp07/ecodispatch/pkg/report"
)

type dispatchOptions struct {
	demand      float64
	month       string
	hour        int
	price       float64
	save        bool
	outDir      string
	format      string
	interactive bool
}

var dispatchOpts dispatchOptions

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Compute the economic dispatch for a demand, month and hour",
	Example: "  ecodispatch dispatch --demand 1800 --month jan --hour 19\n" +
		"  ecodispatch dispatch --interactive",
	RunE: runDispatch,
}

func init() {
	f := dispatchCmd.Flags()
	f.Float64Var(&dispatchOpts.demand, "demand", 0, "total demand in MW")
	f.StringVar(&dispatchOpts.month, "month", "", "month as a 3-letter code (jan..dec)")
	f.IntVar(&dispatchOpts.hour, "hour", 0, "hour 1-24, where 12 is noon and 24 is midnight")
	f.Float64Var(&dispatchOpts.price, "indian-link-price", 0, "Indian Link import price in LKR/kWh")
	f.BoolVar(&dispatchOpts.save, "save", false, "save the report file")
	f.StringVar(&dispatchOpts.outDir, "out-dir", "", "directory for report files (defaults to report.output_dir)")
	f.StringVarP(&dispatchOpts.format, "format", "f", "text", "output format: text, json, csv or html")
	f.BoolVarP(&dispatchOpts.interactive, "interactive", "i", false, "prompt for the inputs")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, _ []string) error {
	opts := dispatchOpts
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	if opts.interactive {
		if err := prompt(in, out, &opts); err != nil {
			return err
		}
	}
	req, err := model.ParseRequest(opts.demand, opts.month, opts.hour, opts.price)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return withService(func(svc *app.Service) error {
		rec, err := svc.Manager.Run(ctx, req)
		if err != nil {
			return err
		}
		if err := export.Write(out, format, rec); err != nil {
			return err
		}
		save := opts.save
		if opts.interactive && !save {
			answer, err := ask(in, out, "\nSave results to file? (y/n): ")
			if err != nil {
				return err
			}
			save = strings.EqualFold(answer, "y")
		}
		if !save {
			return nil
		}
		dir := opts.outDir
		if dir == "" {
			dir = cfg.Report.OutputDir
		}
		path, err := report.Save(dir, rec.Request, rec.Result)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Results saved to %s\n", path)
		return err
	})
}

// prompt asks for every input not given on the command line.
func prompt(in *bufio.Reader, out io.Writer, opts *dispatchOptions) error {
	if _, err := fmt.Fprintf(out, "Sri Lanka Power System Economic Dispatch\n%s\n", strings.Repeat("=", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, "Note: LVPS plants will automatically handle 600MW (200MW per unit)"); err != nil {
		return err
	}
	if opts.demand == 0 {
		s, err := ask(in, out, "\nEnter total electricity demand in MW: ")
		if err != nil {
			return err
		}
		if opts.demand, err = strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("%w: %q", model.ErrInvalidDemand, s)
		}
		if err := model.ValidateDemand(opts.demand); err != nil {
			return err
		}
	}
	s, err := ask(in, out, "Enter Indian Link price (LKR/kWh): ")
	if err != nil {
		return err
	}
	if s != "" {
		if opts.price, err = strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("%w: %q", model.ErrInvalidPrice, s)
		}
		if err := model.ValidatePrice(opts.price); err != nil {
			return err
		}
	}
	if opts.month == "" {
		if opts.month, err = ask(in, out, "Enter month (3-letter abbreviation, e.g., jan, feb): "); err != nil {
			return err
		}
	}
	if opts.hour == 0 {
		s, err := ask(in, out, "Enter hour (1-24, where 1=1am, 12=noon, 24=midnight): ")
		if err != nil {
			return err
		}
		if opts.hour, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("%w: %q", model.ErrInvalidHour, s)
		}
	}
	return nil
}

func ask(in *bufio.Reader, out io.Writer, question string) (string, error) {
	if _, err := io.WriteString(out, question); err != nil {
		return "", err
	}
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
