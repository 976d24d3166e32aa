// Package report renders dispatch results as a console table and as the
// plain-text report files kept by operators.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kilianp07/ecodispatch/core/model"
)

const (
	tableWidth  = 100
	reportWidth = 70
	// SolarUnit is the unit whose availability is shown in the table header.
	SolarUnit = "Solar"
)

var printer = message.NewPrinter(language.English)

// Money formats v with thousands separators and two decimals: 1,234,567.89.
func Money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Demand formats a demand value the way report headers and file names show
// it: integral values keep one decimal (700.0), others keep their digits.
func Demand(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteTable prints the dispatch table shown after each run.
func WriteTable(w io.Writer, req model.Request, res model.DispatchResult) error {
	ew := &errWriter{w: w}
	ew.printf("\nEconomic Dispatch for %s MW Demand at %s (%s season, %s):\n",
		Demand(req.DemandMW), req.Hour.Label(), req.Season().Title(), req.Month.Title())
	ew.printf("Solar Power Available: %.2f MW\n", solarAvailable(res))
	ew.printf("%s\n", strings.Repeat("=", tableWidth))
	ew.printf("%-30s %-15s %-15s %-15s %-15s %-15s\n",
		"Power Plant", "Type", "Capacity (MW)", "Available (MW)", "Dispatched (MW)", "Cost (LKR/h)")
	ew.printf("%s\n", strings.Repeat("-", tableWidth))
	for _, a := range res.Dispatched() {
		ew.printf("%-30s %-15s %-15.2f %-15.2f %-15.2f %-15s\n",
			a.Unit, a.Category.Title(), a.FullCapacity, a.AvailableMW, a.DispatchedMW, Money(a.HourlyCost))
	}
	ew.printf("%s\n", strings.Repeat("=", tableWidth))
	ew.printf("Total dispatched: %.2f MW of %s MW demanded\n", res.DispatchMW, Demand(req.DemandMW))
	ew.printf("Total system capacity: %.2f MW (adjusted for season/month)\n", res.CapacityMW)
	ew.printf("Total hourly cost: %s LKR/h\n", Money(res.TotalCost))
	ew.printf("Average cost per kWh: %.2f LKR/kWh\n", res.AverageCost())
	if res.Shortfall() {
		ew.printf("\nWARNING: %.2f MW demand could not be met!\n", res.UnmetMW)
		ew.printf("Consider adding more generation capacity or implementing load shedding.\n")
	}
	return ew.err
}

// WriteReport writes the content of a saved report file.
func WriteReport(w io.Writer, req model.Request, res model.DispatchResult) error {
	ew := &errWriter{w: w}
	ew.printf("Economic Dispatch Results\n")
	ew.printf("Date: %s (%s season)\n", req.Month.Title(), req.Season().Title())
	ew.printf("Time: %s\n", req.Hour.FileLabel())
	ew.printf("Demand: %s MW\n", Demand(req.DemandMW))
	ew.printf("Indian Link Price: %s LKR/kWh\n", Demand(req.IndianLinkPrice))
	ew.printf("%s\n", strings.Repeat("=", reportWidth))
	ew.printf("%-30s %-15s %-15s\n", "Power Plant", "Type", "Dispatched (MW)")
	for _, a := range res.Dispatched() {
		ew.printf("%-30s %-15s %-15.2f\n", a.Unit, a.Category.Title(), a.DispatchedMW)
	}
	ew.printf("\nTotal dispatched: %.2f MW\n", res.DispatchMW)
	ew.printf("Total hourly cost: %s LKR/h\n", Money(res.TotalCost))
	ew.printf("Average cost: %.2f LKR/kWh\n", res.AverageCost())
	return ew.err
}

// FileName returns dispatch_{month}_{season}_{time}_{demand}MW.txt.
func FileName(req model.Request) string {
	return fmt.Sprintf("dispatch_%s_%s_%s_%sMW.txt",
		req.Month, req.Season(), req.Hour.FileLabel(), Demand(req.DemandMW))
}

// Save writes the report file into dir and returns its path.
func Save(dir string, req model.Request, res model.DispatchResult) (path string, err error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path = filepath.Join(dir, FileName(req))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := WriteReport(f, req, res); err != nil {
		return "", err
	}
	return path, nil
}

func solarAvailable(res model.DispatchResult) float64 {
	for _, a := range res.Allocations {
		if a.Unit == SolarUnit {
			return a.AvailableMW
		}
	}
	return 0
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
