package amof

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// FileName builds the convention file name
// {instrument}_{platform}_{date}_{product}_{version}.nc.
func FileName(instrument, platform, dateLabel, product, version string) string {
	return fmt.Sprintf("%s_%s_%s_%s_%s.nc", instrument, platform, dateLabel, product, version)
}

// Dataset is an AMOF output file under construction. It is created with fixed
// dimension lengths, populated variable-by-variable, and written to disk as a
// classic NetCDF file on Close. Variables declared by the product but never
// populated are written entirely as fill values so that a later
// RemoveEmptyVariables pass can drop them.
type Dataset struct {
	path    string
	product Product
	dimLens map[string]int
	data    map[string]interface{}
	attrs   []Attr
	deleted map[string]bool
	closed  bool
}

// Create starts a new dataset for one day of one instrument's data. dimLens
// must provide the lengths of the time and index dimensions; the latitude and
// longitude dimensions always have length 1.
func Create(dir, instrument, platform, dateLabel, version string, p Product, dimLens map[string]int) (*Dataset, error) {
	d := &Dataset{
		path:    filepath.Join(dir, FileName(instrument, platform, dateLabel, p.Name, version)),
		product: p,
		dimLens: map[string]int{DimLatitude: 1, DimLongitude: 1},
		data:    make(map[string]interface{}),
		deleted: make(map[string]bool),
	}
	for name, n := range dimLens {
		if n <= 0 {
			return nil, fmt.Errorf("amof: dimension %q has non-positive length %d", name, n)
		}
		d.dimLens[name] = n
	}
	for _, v := range p.Variables {
		for _, dim := range v.Dimensions {
			if _, ok := d.dimLens[dim]; !ok {
				return nil, fmt.Errorf("amof: variable %q needs dimension %q but no length was given", v.Name, dim)
			}
		}
	}
	return d, nil
}

// Path returns the path the file will be written to on Close.
func (d *Dataset) Path() string { return d.path }

func (d *Dataset) varLen(v VarDef) int {
	n := 1
	for _, dim := range v.Dimensions {
		n *= d.dimLens[dim]
	}
	return n
}

// UpdateVariable stores the values for one declared variable. Accepted value
// types are *sparse.DenseArray, []float64, []int32 and float64 (for
// single-element variables such as latitude); the flattened length must match
// the variable's dimension lengths.
func (d *Dataset) UpdateVariable(name string, values interface{}) error {
	v, ok := d.product.Var(name)
	if !ok {
		return fmt.Errorf("amof: product %q has no variable %q", d.product.Name, name)
	}
	want := d.varLen(v)
	var flat interface{}
	switch x := values.(type) {
	case *sparse.DenseArray:
		if len(x.Shape) != len(v.Dimensions) {
			return fmt.Errorf("amof: variable %q: array rank %d does not match %d dimensions",
				name, len(x.Shape), len(v.Dimensions))
		}
		buf := make([]float64, len(x.Elements))
		copy(buf, x.Elements)
		flat = buf
	case []float64:
		flat = x
	case []int32:
		flat = x
	case float64:
		flat = []float64{x}
	default:
		return fmt.Errorf("amof: variable %q: unsupported value type %T", name, values)
	}
	if n := flatLen(flat); n != want {
		return fmt.Errorf("amof: variable %q: got %d values, want %d", name, n, want)
	}
	if err := typeMatches(v.Type, flat); err != nil {
		return fmt.Errorf("amof: variable %q: %w", name, err)
	}
	d.data[name] = flat
	return nil
}

func flatLen(flat interface{}) int {
	switch x := flat.(type) {
	case []float64:
		return len(x)
	case []int32:
		return len(x)
	default:
		return 0
	}
}

func typeMatches(t DataType, flat interface{}) error {
	switch flat.(type) {
	case []float64:
		if t != Double {
			return fmt.Errorf("float values for a non-double variable")
		}
	case []int32:
		if t != Int {
			return fmt.Errorf("int values for a non-int variable")
		}
	}
	return nil
}

// SetGlobalAttr sets a global attribute, overriding any product default of the
// same name.
func (d *Dataset) SetGlobalAttr(name string, value interface{}) {
	delete(d.deleted, name)
	for i, a := range d.attrs {
		if a.Name == name {
			d.attrs[i].Value = value
			return
		}
	}
	d.attrs = append(d.attrs, Attr{Name: name, Value: value})
}

// DeleteGlobalAttr removes a global attribute, whether a product default or
// one set on this dataset. Deleting an absent attribute is a no-op.
func (d *Dataset) DeleteGlobalAttr(name string) {
	d.deleted[name] = true
	for i, a := range d.attrs {
		if a.Name == name {
			d.attrs = append(d.attrs[:i], d.attrs[i+1:]...)
			return
		}
	}
}

// globalAttrs merges the product defaults with attributes set on the dataset,
// honoring deletions. Defaults keep their catalogue order; new attributes
// follow in the order they were set.
func (d *Dataset) globalAttrs() []Attr {
	overrides := make(map[string]interface{}, len(d.attrs))
	for _, a := range d.attrs {
		overrides[a.Name] = a.Value
	}
	var out []Attr
	seen := make(map[string]bool)
	for _, a := range d.product.GlobalAttrs {
		if d.deleted[a.Name] {
			continue
		}
		if v, ok := overrides[a.Name]; ok {
			a.Value = v
		}
		out = append(out, a)
		seen[a.Name] = true
	}
	for _, a := range d.attrs {
		if !seen[a.Name] && !d.deleted[a.Name] {
			out = append(out, a)
		}
	}
	return out
}

func zeroValue(t DataType) interface{} {
	switch t {
	case Int:
		return []int32{0}
	case Byte:
		return []uint8{0}
	default:
		return []float64{0}
	}
}

func fillSlice(t DataType, n int) interface{} {
	switch t {
	case Int:
		buf := make([]int32, n)
		for i := range buf {
			buf[i] = FillInt
		}
		return buf
	case Byte:
		buf := make([]uint8, n)
		for i := range buf {
			buf[i] = FillByte
		}
		return buf
	default:
		buf := make([]float64, n)
		for i := range buf {
			buf[i] = math.NaN()
		}
		return buf
	}
}

// attrValue converts an attribute value to a form the CDF encoder accepts
// ([]uint8, string, []int16, []int32, []float32 or []float64): strings stay
// strings, scalar numbers become single-element slices, and signed bytes
// (as returned when reading byte attributes back from a file) become uint8.
func attrValue(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return []int32{int32(x)}
	case int32:
		return []int32{x}
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return []int32{int32(x)}
		}
		return []float64{float64(x)}
	case int16:
		return []int16{x}
	case int8:
		return []uint8{uint8(x)}
	case []int8:
		buf := make([]uint8, len(x))
		for i, b := range x {
			buf[i] = uint8(b)
		}
		return buf
	case float64:
		return []float64{x}
	case float32:
		return []float64{float64(x)}
	default:
		return v
	}
}

// Close writes the dataset to disk as a classic NetCDF file and makes it
// immutable to this process. Populated variables are written with their
// stored values; unpopulated ones are written as fill.
func (d *Dataset) Close() error {
	if d.closed {
		return fmt.Errorf("amof: dataset %s already closed", d.path)
	}
	d.closed = true

	dimOrder := []string{DimTime, DimIndex, DimLatitude, DimLongitude}
	var dimNames []string
	var dimLens []int
	for _, name := range dimOrder {
		if n, ok := d.dimLens[name]; ok {
			dimNames = append(dimNames, name)
			dimLens = append(dimLens, n)
		}
	}

	h := cdf.NewHeader(dimNames, dimLens)
	for _, v := range d.product.Variables {
		h.AddVariable(v.Name, v.Dimensions, zeroValue(v.Type))
		for _, a := range v.Attrs {
			h.AddAttribute(v.Name, a.Name, attrValue(a.Value))
		}
	}
	for _, a := range d.globalAttrs() {
		h.AddAttribute("", a.Name, attrValue(a.Value))
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("amof: defining %s: %w", d.path, err)
	}

	ff, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("amof: creating %s: %w", d.path, err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("amof: writing header of %s: %w", d.path, err)
	}
	for _, v := range d.product.Variables {
		flat, ok := d.data[v.Name]
		if !ok {
			flat = fillSlice(v.Type, d.varLen(v))
		}
		begin := make([]int, len(v.Dimensions))
		end := make([]int, len(v.Dimensions))
		for i, dim := range v.Dimensions {
			end[i] = d.dimLens[dim]
		}
		w := f.Writer(v.Name, begin, end)
		if _, err := w.Write(flat); err != nil {
			return fmt.Errorf("amof: writing variable %q to %s: %w", v.Name, d.path, err)
		}
	}
	// The encoder leaves the record count marked as streaming until told
	// otherwise; readers reject such files.
	if err := cdf.UpdateNumRecs(ff); err != nil {
		return fmt.Errorf("amof: finalizing %s: %w", d.path, err)
	}
	if err := ff.Close(); err != nil {
		return fmt.Errorf("amof: closing %s: %w", d.path, err)
	}
	return nil
}
