package availability

import "math"

const (
	sunrise   = 6
	sunset    = 18
	solarNoon = 12
)

// SolarOutput returns the solar output in MW for hour given the plant's peak
// capacity. Output is zero outside [6,18) and follows -a(h-12)^2 + peak with
// a = peak/36, so it is 0 at 6am and peaks at noon.
func SolarOutput(hour int, peakMW float64) float64 {
	if hour < sunrise || hour >= sunset {
		return 0
	}
	normalized := float64(hour - sunrise)
	a := peakMW / 36
	d := normalized - (solarNoon - sunrise)
	return math.Max(0, -a*d*d+peakMW)
}
