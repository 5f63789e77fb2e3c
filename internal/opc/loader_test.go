package opc

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t,
		"Datetime,0.3,0.5,1.0\n"+
			"2023-06-01T00:00:00,120,45,3\n"+
			",,,\n"+ // entirely blank: dropped
			"2023-06-01T00:01:00,,,\n"+ // timestamp but no readings: dropped
			"2023-06-01T00:02:00,130,,4\n") // partial readings: kept
	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"0.3", "0.5", "1.0"}, table.Bins)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), table.Rows[0].Timestamp)
	assert.Equal(t, []float64{120, 45, 3}, table.Rows[0].Counts)

	assert.Equal(t, time.Date(2023, 6, 1, 0, 2, 0, 0, time.UTC), table.Rows[1].Timestamp)
	assert.Equal(t, 130.0, table.Rows[1].Counts[0])
	assert.True(t, math.IsNaN(table.Rows[1].Counts[1]))
	assert.Equal(t, 4.0, table.Rows[1].Counts[2])
}

func TestLoadTimestampLayouts(t *testing.T) {
	path := writeCSV(t,
		"Datetime,0.3\n"+
			"2023-06-01T00:00:00Z,1\n"+
			"2023-06-01 00:01:00,2\n"+
			"2023-06-01T00:02,3\n")
	table, err := Load(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	for i, want := range []int{0, 1, 2} {
		assert.Equal(t, time.Date(2023, 6, 1, 0, want, 0, 0, time.UTC),
			table.Rows[i].Timestamp.UTC())
	}
}

func TestLoadBadTimestamp(t *testing.T) {
	path := writeCSV(t, "Datetime,0.3\nnot-a-time,1\n")
	_, err := Load(path)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "want *ParseError, got %v", err)
	assert.Equal(t, 2, perr.Line)
}

func TestLoadBadReading(t *testing.T) {
	path := writeCSV(t, "Datetime,0.3\n2023-06-01T00:00:00,twelve\n")
	_, err := Load(path)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestLoadEmptyFile(t *testing.T) {
	for name, contents := range map[string]string{
		"no rows":     "",
		"header only": "Datetime,0.3\n",
		"one column":  "Datetime\n2023-06-01T00:00:00\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeCSV(t, contents))
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want *ParseError, got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
