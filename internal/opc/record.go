// Package opc converts raw optical-particle-counter CSV output into per-day
// AMOF aerosol-size-distribution NetCDF files.
package opc

import "time"

// Record is one instrument sample: a timestamp and one count per size-bin
// column. Missing readings are NaN.
type Record struct {
	Timestamp time.Time
	Counts    []float64
}

// Table is the parsed input file. Bins holds the non-timestamp column
// headers, which are the lower diameter bounds of the instrument's size bins
// in ascending order.
type Table struct {
	Bins []string
	Rows []Record
}
