package opc

import (
	"sort"
	"time"
)

// DayGroup is the subset of a table whose timestamps fall on one UTC calendar
// date. Rows keep their original order; Bins is shared with the source table.
type DayGroup struct {
	Date  time.Time // midnight UTC
	Table *Table
}

// Timestamps returns the group's timestamp sequence in row order.
func (g DayGroup) Timestamps() []time.Time {
	ts := make([]time.Time, len(g.Table.Rows))
	for i, row := range g.Table.Rows {
		ts[i] = row.Timestamp
	}
	return ts
}

// Partition splits a table into day groups keyed by UTC calendar date.
// Every row lands in exactly one group; groups are returned in ascending
// date order.
func Partition(t *Table) []DayGroup {
	byDate := make(map[time.Time]*Table)
	var dates []time.Time
	for _, row := range t.Rows {
		ts := row.Timestamp.UTC()
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		g, ok := byDate[date]
		if !ok {
			g = &Table{Bins: t.Bins}
			byDate[date] = g
			dates = append(dates, date)
		}
		g.Rows = append(g.Rows, row)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	groups := make([]DayGroup, len(dates))
	for i, date := range dates {
		groups[i] = DayGroup{Date: date, Table: byDate[date]}
	}
	return groups
}
