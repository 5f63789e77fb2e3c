package amof

import (
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/cdf"
)

// RemoveEmptyVariables scans a closed NetCDF file for variables whose values
// are entirely fill and rewrites the file without them. Files with no empty
// variables are left untouched. The rewrite goes to a temporary file that
// replaces the original on success, so a failure leaves the input as it was.
func RemoveEmptyVariables(path string) error {
	nc, err := netcdf.Open(path)
	if err != nil {
		return fmt.Errorf("amof: opening %s: %w", path, err)
	}
	type varData struct {
		name string
		v    *api.Variable
	}
	var kept []varData
	nEmpty := 0
	for _, name := range nc.ListVariables() {
		v, err := nc.GetVariable(name)
		if err != nil {
			nc.Close()
			return fmt.Errorf("amof: reading variable %q from %s: %w", name, path, err)
		}
		if variableIsEmpty(v) {
			nEmpty++
			continue
		}
		kept = append(kept, varData{name, v})
	}
	globals := attrPairs(nc.Attributes())
	nc.Close()
	if nEmpty == 0 {
		return nil
	}

	// Dimension lengths come from the shapes of the surviving variables;
	// dimensions used only by dropped variables are dropped with them.
	var dimNames []string
	var dimLens []int
	seen := make(map[string]bool)
	for _, kv := range kept {
		shape := valueShape(kv.v.Values)
		for i, dim := range kv.v.Dimensions {
			if seen[dim] || i >= len(shape) {
				continue
			}
			seen[dim] = true
			dimNames = append(dimNames, dim)
			dimLens = append(dimLens, shape[i])
		}
	}

	h := cdf.NewHeader(dimNames, dimLens)
	for _, kv := range kept {
		flat, err := flatten(kv.v.Values)
		if err != nil {
			return fmt.Errorf("amof: variable %q in %s: %w", kv.name, path, err)
		}
		h.AddVariable(kv.name, kv.v.Dimensions, zeroLike(flat))
		for _, a := range attrPairs(kv.v.Attributes) {
			h.AddAttribute(kv.name, a.Name, attrValue(a.Value))
		}
	}
	for _, a := range globals {
		h.AddAttribute("", a.Name, attrValue(a.Value))
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("amof: rebuilding %s: %w", path, err)
	}

	tmp := path + ".strip"
	ff, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("amof: creating %s: %w", tmp, err)
	}
	defer os.Remove(tmp)
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("amof: writing header of %s: %w", tmp, err)
	}
	for _, kv := range kept {
		flat, err := flatten(kv.v.Values)
		if err != nil {
			return fmt.Errorf("amof: variable %q in %s: %w", kv.name, path, err)
		}
		shape := valueShape(kv.v.Values)
		begin := make([]int, len(shape))
		w := f.Writer(kv.name, begin, shape)
		if _, err := w.Write(flat); err != nil {
			return fmt.Errorf("amof: writing variable %q to %s: %w", kv.name, tmp, err)
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		return fmt.Errorf("amof: finalizing %s: %w", tmp, err)
	}
	if err := ff.Close(); err != nil {
		return fmt.Errorf("amof: closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("amof: replacing %s: %w", path, err)
	}
	return nil
}

func attrPairs(m api.AttributeMap) []Attr {
	if m == nil {
		return nil
	}
	var out []Attr
	for _, key := range m.Keys() {
		if v, ok := m.Get(key); ok {
			out = append(out, Attr{Name: key, Value: v})
		}
	}
	return out
}

// variableIsEmpty reports whether every element of a variable equals its fill
// value. Floating-point variables additionally treat NaN as fill, so a float
// variable is strippable even without a _FillValue attribute.
func variableIsEmpty(v *api.Variable) bool {
	fill, hasFill := fillOf(v.Attributes)
	rv := reflect.ValueOf(v.Values)
	if !rv.IsValid() || rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return false
	}
	return allFill(rv, fill, hasFill)
}

func fillOf(attrs api.AttributeMap) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	v, ok := attrs.Get("_FillValue")
	if !ok {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 0 {
			return 0, false
		}
		rv = rv.Index(0)
	}
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return float64(rv.Int()), true
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func allFill(rv reflect.Value, fill float64, hasFill bool) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !allFill(rv.Index(i), fill, hasFill) {
				return false
			}
		}
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return math.IsNaN(f) || (hasFill && f == fill)
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return hasFill && float64(rv.Int()) == fill
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return hasFill && float64(rv.Uint()) == fill
	}
	return false
}

// valueShape returns the nested-slice lengths of a variable's values.
func valueShape(values interface{}) []int {
	var shape []int
	rv := reflect.ValueOf(values)
	for rv.Kind() == reflect.Slice {
		shape = append(shape, rv.Len())
		if rv.Len() == 0 {
			break
		}
		rv = rv.Index(0)
	}
	return shape
}

// flatten converts possibly-nested slices into the flat typed slice the CDF
// writer expects.
func flatten(values interface{}) (interface{}, error) {
	rv := reflect.ValueOf(values)
	base := rv.Type()
	for base.Kind() == reflect.Slice {
		base = base.Elem()
	}
	switch base.Kind() {
	case reflect.Float64:
		var out []float64
		appendFlat(rv, func(v reflect.Value) { out = append(out, v.Float()) })
		return out, nil
	case reflect.Float32:
		var out []float32
		appendFlat(rv, func(v reflect.Value) { out = append(out, float32(v.Float())) })
		return out, nil
	case reflect.Int32:
		var out []int32
		appendFlat(rv, func(v reflect.Value) { out = append(out, int32(v.Int())) })
		return out, nil
	case reflect.Int16:
		var out []int16
		appendFlat(rv, func(v reflect.Value) { out = append(out, int16(v.Int())) })
		return out, nil
	case reflect.Int8:
		// NetCDF bytes read back as int8; the CDF encoder wants uint8.
		var out []uint8
		appendFlat(rv, func(v reflect.Value) { out = append(out, uint8(v.Int())) })
		return out, nil
	case reflect.Uint8:
		var out []uint8
		appendFlat(rv, func(v reflect.Value) { out = append(out, uint8(v.Uint())) })
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", values)
}

func appendFlat(rv reflect.Value, emit func(reflect.Value)) {
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			appendFlat(rv.Index(i), emit)
		}
		return
	}
	emit(rv)
}

func zeroLike(flat interface{}) interface{} {
	switch flat.(type) {
	case []float64:
		return []float64{0}
	case []float32:
		return []float32{0}
	case []int32:
		return []int32{0}
	case []int16:
		return []int16{0}
	case []uint8:
		return []uint8{0}
	}
	return []float64{0}
}
