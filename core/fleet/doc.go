// Package fleet loads the generating-unit fleet and the monthly hydro
// availability table. Both are YAML data assets: the reference data set is
// embedded in the binary and can be replaced by external files at startup.
//
// A loaded Fleet and HydroTable are read-only and safe for concurrent use.
package fleet
