package report

import (
	"io"
	"strings"

	"github.com/kilianp07/ecodispatch/core/model"
)

// WriteAvailability prints the resolved capacity of every unit.
func WriteAvailability(w io.Writer, month model.Month, hour model.Hour, units []model.ResolvedUnit) error {
	ew := &errWriter{w: w}
	ew.printf("\nAvailable capacity at %s (%s season, %s):\n", hour.Label(), month.Season().Title(), month.Title())
	ew.printf("%s\n", strings.Repeat("=", reportWidth))
	ew.printf("%-30s %-15s %-15s %-15s\n", "Power Plant", "Type", "Capacity (MW)", "Available (MW)")
	ew.printf("%s\n", strings.Repeat("-", reportWidth))
	var total float64
	for _, u := range units {
		total += u.AvailableMW
		ew.printf("%-30s %-15s %-15.2f %-15.2f\n", u.Name, u.Category.Title(), u.FullCapacityMW, u.AvailableMW)
	}
	ew.printf("%s\n", strings.Repeat("=", reportWidth))
	ew.printf("Total system capacity: %.2f MW\n", total)
	return ew.err
}
