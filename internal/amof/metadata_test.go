package amof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMetadata(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadMetadata(t *testing.T) {
	path := writeMetadata(t,
		"instrument_manufacturer,GRIMM\n"+
			"averaging_interval,60\n"+
			"instrument_software_version,1.2\n"+
			"\n"+
			"sampling_interval,6 second\n")
	attrs, err := ReadMetadata(path)
	require.NoError(t, err)

	want := []Attr{
		{"instrument_manufacturer", "GRIMM"},
		{"averaging_interval", 60.0},
		// Version numbers stay text even when they parse as floats.
		{"instrument_software_version", "1.2"},
		{"sampling_interval", "6 second"},
	}
	assert.Equal(t, want, attrs)
}

func TestReadMetadataMissingFile(t *testing.T) {
	_, err := ReadMetadata(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
