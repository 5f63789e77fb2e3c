// Package amof writes NCAS-AMF ("AMOF") convention NetCDF files: one file per
// instrument per day, with a fixed variable catalogue per data product and a
// set of convention global attributes.
package amof

import "math"

// Dimension names shared by all surface products.
const (
	DimTime      = "time"
	DimIndex     = "index"
	DimLatitude  = "latitude"
	DimLongitude = "longitude"
)

// DataType is the NetCDF external type of a variable.
type DataType int

const (
	Double DataType = iota
	Int
	Byte
)

// Fill values written to variables that are declared by the product but never
// populated by the converter. Doubles use NaN. These match the _FillValue
// attributes declared in the variable catalogue. Byte data is carried as
// uint8 because that is how the CDF encoder represents the NetCDF byte type;
// FillByte is the signed byte -127.
const (
	FillInt  = int32(-9999)
	FillByte = uint8(0x81)
)

// FillValue returns the fill value for a data type as the typed value stored
// in the _FillValue attribute.
func (t DataType) FillValue() interface{} {
	switch t {
	case Int:
		return []int32{FillInt}
	case Byte:
		return []uint8{FillByte}
	default:
		return []float64{math.NaN()}
	}
}

// Attr is a single named attribute, either global or per-variable.
type Attr struct {
	Name  string
	Value interface{}
}

// VarDef declares one variable of a data product.
type VarDef struct {
	Name       string
	Dimensions []string
	Type       DataType
	Attrs      []Attr
}

// Product is the catalogue of variables and convention global attributes for
// one AMOF data product.
type Product struct {
	Name        string
	Variables   []VarDef
	GlobalAttrs []Attr
}

// Var looks up a variable definition by name.
func (p Product) Var(name string) (VarDef, bool) {
	for _, v := range p.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VarDef{}, false
}

func timeVar(name, longName, units string) VarDef {
	return VarDef{
		Name:       name,
		Dimensions: []string{DimTime},
		Type:       Int,
		Attrs: []Attr{
			{"long_name", longName},
			{"units", units},
			{"_FillValue", Int.FillValue()},
		},
	}
}

// AerosolSizeDistribution is the product written for optical particle
// counters: per-channel ambient aerosol number concentrations plus the
// channel diameter limits.
func AerosolSizeDistribution() Product {
	nan := Double.FillValue()
	return Product{
		Name: "aerosol-size-distribution",
		Variables: []VarDef{
			{
				Name:       "ambient_aerosol_number_per_channel",
				Dimensions: []string{DimTime, DimIndex},
				Type:       Double,
				Attrs: []Attr{
					{"long_name", "Ambient Aerosol Number per Channel"},
					{"units", "cm-3"},
					{"_FillValue", nan},
				},
			},
			{
				Name:       "measurement_channel_lower_limit",
				Dimensions: []string{DimTime, DimIndex},
				Type:       Double,
				Attrs: []Attr{
					{"long_name", "Lower Limit of Spectrometer Measurement Channel"},
					{"units", "um"},
					{"_FillValue", nan},
				},
			},
			{
				Name:       "measurement_channel_upper_limit",
				Dimensions: []string{DimTime, DimIndex},
				Type:       Double,
				Attrs: []Attr{
					{"long_name", "Upper Limit of Spectrometer Measurement Channel"},
					{"units", "um"},
					{"_FillValue", nan},
				},
			},
			{
				Name:       "qc_flag_ambient_aerosol_number_per_channel",
				Dimensions: []string{DimTime, DimIndex},
				Type:       Byte,
				Attrs: []Attr{
					{"long_name", "Data Quality Flag: Ambient Aerosol Number per Channel"},
					{"units", "1"},
					{"flag_values", []uint8{0, 1, 2, 3}},
					{"flag_meanings", "not_used good_data bad_data_unspecified_instrument_performance_issues suspect_data_timing_offset_uncertainty"},
					{"_FillValue", Byte.FillValue()},
				},
			},
			{
				Name:       "time",
				Dimensions: []string{DimTime},
				Type:       Double,
				Attrs: []Attr{
					{"long_name", "Time (seconds since 1970-01-01 00:00:00)"},
					{"units", "seconds since 1970-01-01 00:00:00"},
					{"standard_name", "time"},
					{"calendar", "standard"},
					{"_FillValue", nan},
				},
			},
			timeVar("day_of_year", "Day of Year", "1"),
			timeVar("year", "Year", "1"),
			timeVar("month", "Month", "1"),
			timeVar("day", "Day", "1"),
			timeVar("hour", "Hour", "1"),
			timeVar("minute", "Minute", "1"),
			timeVar("second", "Second", "1"),
			{
				Name:       "latitude",
				Dimensions: []string{DimLatitude},
				Type:       Double,
				Attrs: []Attr{
					{"long_name", "Latitude"},
					{"units", "degree_north"},
					{"standard_name", "latitude"},
					{"_FillValue", nan},
				},
			},
			{
				Name:       "longitude",
				Dimensions: []string{DimLongitude},
				Type:       Double,
				Attrs: []Attr{
					{"long_name", "Longitude"},
					{"units", "degree_east"},
					{"standard_name", "longitude"},
					{"_FillValue", nan},
				},
			},
		},
		GlobalAttrs: []Attr{
			{"Conventions", "CF-1.6 NCAS-AMF-2.0.0"},
			{"source", "NCAS Optical Particle Counter unit 1"},
			{"institution", "National Centre for Atmospheric Science (NCAS)"},
			{"platform", "mobile"},
			{"platform_type", "stationary_platform"},
			{"featureType", "timeSeries"},
			{"processing_level", "1"},
			{"product_version", "v1.0"},
			{"licence", "Data usage licence - UK Government Open Licence agreement: http://www.nationalarchives.gov.uk/doc/open-government-licence"},
			// Mobility-analyzer geometry; populated only for DMPS-type
			// instruments and deleted by converters for other instruments.
			{"dma_inner_radius", "Not applicable"},
			{"dma_outer_radius", "Not applicable"},
			{"dma_length", "Not applicable"},
			{"impactor_orifice_diameter", "Not applicable"},
		},
	}
}
