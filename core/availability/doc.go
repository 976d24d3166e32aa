// Package availability derives the available capacity of every generating
// unit for a month and hour.
//
// Rules per category:
//   - hydro: metered value from the monthly hydro table, full capacity when absent
//   - mini_hydro: 0 in the dry season, 75% of full capacity in the wet season
//   - the "Solar" renewable unit: a parabola over daylight hours peaking at noon
//   - everything else: full capacity
//
// Resolution never mutates the fleet: every call returns a fresh snapshot.
package availability
