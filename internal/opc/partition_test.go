package opc

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(ts string, counts ...float64) Record {
	t, err := time.Parse("2006-01-02T15:04:05", ts)
	if err != nil {
		panic(err)
	}
	return Record{Timestamp: t, Counts: counts}
}

func TestPartition(t *testing.T) {
	table := &Table{
		Bins: []string{"0.3", "0.5"},
		Rows: []Record{
			row("2023-06-02T08:00:00", 7, 8),
			row("2023-06-01T00:00:00", 1, 2),
			row("2023-06-01T23:59:59", 3, 4),
		},
	}
	groups := Partition(table)
	require.Len(t, groups, 2)

	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), groups[0].Date)
	assert.Equal(t, time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), groups[1].Date)

	// Rows keep input order within their day, and every input row lands in
	// exactly one group.
	wantDay1 := []Record{
		row("2023-06-01T00:00:00", 1, 2),
		row("2023-06-01T23:59:59", 3, 4),
	}
	if diff := cmp.Diff(wantDay1, groups[0].Table.Rows); diff != "" {
		t.Errorf("day 1 rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Record{row("2023-06-02T08:00:00", 7, 8)}, groups[1].Table.Rows); diff != "" {
		t.Errorf("day 2 rows mismatch (-want +got):\n%s", diff)
	}

	total := 0
	for _, g := range groups {
		assert.Equal(t, table.Bins, g.Table.Bins)
		total += len(g.Table.Rows)
	}
	assert.Equal(t, len(table.Rows), total)
}

func TestPartitionUsesUTCDate(t *testing.T) {
	// 2023-06-01T23:30-03:00 is 2023-06-02T02:30 UTC.
	offset, err := time.Parse(time.RFC3339, "2023-06-01T23:30:00-03:00")
	require.NoError(t, err)
	table := &Table{
		Bins: []string{"0.3"},
		Rows: []Record{{Timestamp: offset, Counts: []float64{1}}},
	}
	groups := Partition(table)
	require.Len(t, groups, 1)
	assert.Equal(t, time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), groups[0].Date)
}

func TestTimestamps(t *testing.T) {
	g := DayGroup{Table: &Table{Rows: []Record{
		row("2023-06-01T00:00:00", 1),
		row("2023-06-01T00:01:00", 2),
	}}}
	ts := g.Timestamps()
	require.Len(t, ts, 2)
	assert.True(t, ts[0].Before(ts[1]))
}
