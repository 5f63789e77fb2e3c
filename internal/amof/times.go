package amof

import (
	"errors"
	"time"
)

// TimeBundle holds the per-sample time decomposition of one day of
// observations, plus the coverage bounds and the date label used in file
// names. All fields are derived from the same timestamp sequence.
type TimeBundle struct {
	Unix      []float64
	DayOfYear []int32
	Year      []int32
	Month     []int32
	Day       []int32
	Hour      []int32
	Minute    []int32
	Second    []int32

	// Unix seconds of the earliest and latest sample.
	CoverageStart int64
	CoverageEnd   int64

	// FileDate is the YYYYMMDD label of the first sample's UTC date.
	FileDate string
}

// Times decomposes a timestamp sequence into the time variables an AMOF file
// carries. The sequence must be non-empty; it is not required to be sorted,
// coverage bounds are the minimum and maximum timestamps.
func Times(ts []time.Time) (*TimeBundle, error) {
	if len(ts) == 0 {
		return nil, errors.New("amof: deriving time fields from an empty timestamp sequence")
	}
	n := len(ts)
	tb := &TimeBundle{
		Unix:      make([]float64, n),
		DayOfYear: make([]int32, n),
		Year:      make([]int32, n),
		Month:     make([]int32, n),
		Day:       make([]int32, n),
		Hour:      make([]int32, n),
		Minute:    make([]int32, n),
		Second:    make([]int32, n),
	}
	start, end := ts[0], ts[0]
	for i, t := range ts {
		t = t.UTC()
		tb.Unix[i] = float64(t.Unix())
		tb.DayOfYear[i] = int32(t.YearDay())
		tb.Year[i] = int32(t.Year())
		tb.Month[i] = int32(t.Month())
		tb.Day[i] = int32(t.Day())
		tb.Hour[i] = int32(t.Hour())
		tb.Minute[i] = int32(t.Minute())
		tb.Second[i] = int32(t.Second())
		if t.Before(start) {
			start = t
		}
		if t.After(end) {
			end = t
		}
	}
	tb.CoverageStart = start.Unix()
	tb.CoverageEnd = end.Unix()
	tb.FileDate = ts[0].UTC().Format("20060102")
	return tb, nil
}

// CoverageFormat is the textual pattern of the time_coverage_start and
// time_coverage_end global attributes: UTC, second precision, no zone suffix.
const CoverageFormat = "2006-01-02T15:04:05"

// FormatCoverage renders unix seconds as a coverage attribute value.
func FormatCoverage(unixSecs int64) string {
	return time.Unix(unixSecs, 0).UTC().Format(CoverageFormat)
}
