package opc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a malformed input file. Line is 1-based and 0 when the
// problem is not tied to a single line.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Timestamp layouts accepted in the first column. All are ISO-8601 forms; a
// layout without a zone is taken as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Load reads an instrument CSV file. The first row is the header, the first
// column an ISO-8601 timestamp, the remaining columns size-bin counts. Rows
// that are entirely blank are dropped, as are rows that carry a timestamp but
// no readings. Blank readings in an otherwise populated row are kept as NaN.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, &ParseError{Path: path, Line: 1, Err: fmt.Errorf("reading header: %w", err)}
	}
	if len(header) < 2 {
		return nil, &ParseError{Path: path, Line: 1, Err: errors.New("header needs a timestamp column and at least one size-bin column")}
	}

	t := &Table{Bins: header[1:]}
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		if blankRow(row) {
			continue
		}
		ts, err := parseTimestamp(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		counts := make([]float64, len(row)-1)
		present := false
		for i, field := range row[1:] {
			field = strings.TrimSpace(field)
			if field == "" {
				counts[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{Path: path, Line: line, Err: fmt.Errorf("column %q: %w", t.Bins[i], err)}
			}
			counts[i] = v
			present = true
		}
		// A timestamp with no readings carries no information.
		if !present {
			continue
		}
		t.Rows = append(t.Rows, Record{Timestamp: ts, Counts: counts})
	}
	if len(t.Rows) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("no data rows")}
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
