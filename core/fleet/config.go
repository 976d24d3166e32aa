package fleet

// Config selects the data assets used to build the fleet.
type Config struct {
	// UnitsFile overrides the embedded fleet definition when set.
	UnitsFile string `json:"units_file"`
	// HydroFile overrides the embedded monthly hydro table when set.
	HydroFile string `json:"hydro_file"`
	// EnableInterconnect turns on interconnect units, which are disabled in
	// the reference fleet.
	EnableInterconnect bool `json:"enable_interconnect"`
	// StrictHydroTable treats hydro units missing from a month's table as
	// unavailable instead of falling back to full capacity.
	StrictHydroTable bool `json:"strict_hydro_table"`
}
