package amof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimes(t *testing.T) {
	ts := []time.Time{
		time.Date(2023, 6, 1, 0, 0, 30, 0, time.UTC),
		time.Date(2023, 6, 1, 12, 34, 56, 0, time.UTC),
		time.Date(2023, 6, 1, 23, 59, 59, 0, time.UTC),
	}
	tb, err := Times(ts)
	require.NoError(t, err)

	assert.Equal(t, []float64{1685577630, 1685622896, 1685663999}, tb.Unix)
	assert.Equal(t, []int32{152, 152, 152}, tb.DayOfYear)
	assert.Equal(t, []int32{2023, 2023, 2023}, tb.Year)
	assert.Equal(t, []int32{6, 6, 6}, tb.Month)
	assert.Equal(t, []int32{1, 1, 1}, tb.Day)
	assert.Equal(t, []int32{0, 12, 23}, tb.Hour)
	assert.Equal(t, []int32{0, 34, 59}, tb.Minute)
	assert.Equal(t, []int32{30, 56, 59}, tb.Second)
	assert.Equal(t, int64(1685577630), tb.CoverageStart)
	assert.Equal(t, int64(1685663999), tb.CoverageEnd)
	assert.Equal(t, "20230601", tb.FileDate)
}

func TestTimesUnsorted(t *testing.T) {
	ts := []time.Time{
		time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 1, 6, 0, 0, 0, time.UTC),
	}
	tb, err := Times(ts)
	require.NoError(t, err)
	assert.Equal(t, ts[1].Unix(), tb.CoverageStart)
	assert.Equal(t, ts[0].Unix(), tb.CoverageEnd)
}

func TestTimesEmpty(t *testing.T) {
	_, err := Times(nil)
	require.Error(t, err)
}

func TestFormatCoverage(t *testing.T) {
	// Second precision, literal T, no zone suffix.
	assert.Equal(t, "2023-06-01T12:34:56", FormatCoverage(1685622896))
}
