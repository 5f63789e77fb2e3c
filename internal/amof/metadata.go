package amof

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// stringAttrs are metadata keys whose values must stay text even when they
// look numeric (a software version of "1.2" is not a number).
var stringAttrs = map[string]bool{
	"instrument_software_version": true,
	"product_version":             true,
	"processing_software_version": true,
}

// ReadMetadata loads a key/value CSV side file of global attributes. Values
// that parse as numbers are applied as numeric attributes, everything else as
// text, matching how the archive's metadata files are authored.
func ReadMetadata(path string) ([]Attr, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("amof: opening metadata file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var attrs []Attr
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("amof: reading metadata file %s: %w", path, err)
		}
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(row[0])
		val := strings.TrimSpace(row[1])
		if key == "" {
			continue
		}
		if !stringAttrs[key] {
			if num, err := strconv.ParseFloat(val, 64); err == nil {
				attrs = append(attrs, Attr{Name: key, Value: num})
				continue
			}
		}
		attrs = append(attrs, Attr{Name: key, Value: val})
	}
	return attrs, nil
}
