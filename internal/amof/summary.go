package amof

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
)

// Summary reopens a finalized file and returns summary information suitable
// for logging as slog key-value pairs.
func Summary(path string) ([]any, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("amof: opening %s: %w", path, err)
	}
	defer nc.Close()

	vars := nc.ListVariables()
	samples := 0
	if tv, err := nc.GetVariable("time"); err == nil {
		if unix, ok := tv.Values.([]float64); ok {
			samples = len(unix)
		}
	}
	return []any{
		"path", path,
		"vars", len(vars),
		"samples", samples,
	}, nil
}
