package opc

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ncasuk/ncas-opc-1-software/internal/amof"
)

// Converter turns one instrument CSV file into per-day AMOF NetCDF files.
type Converter struct {
	cfg      Config
	logger   *slog.Logger
	outDir   string
	product  amof.Product
	metadata []amof.Attr
}

// NewConverter prepares a converter writing to outDir. metadata holds the
// global attributes from the instrument's metadata side file.
func NewConverter(cfg Config, logger *slog.Logger, outDir string, metadata []amof.Attr) *Converter {
	return &Converter{
		cfg:      cfg,
		logger:   logger,
		outDir:   outDir,
		product:  amof.AerosolSizeDistribution(),
		metadata: metadata,
	}
}

// Run converts the whole input file, one output file per UTC calendar day.
// It returns the paths of the files written. A failure on one day aborts the
// run; days already written stay on disk and re-running after a fix
// overwrites them.
func (c *Converter) Run(inputPath string) ([]string, error) {
	table, err := Load(inputPath)
	if err != nil {
		return nil, err
	}
	groups := Partition(table)
	var outputs []string
	for _, g := range groups {
		c.logger.Info("converting day",
			"date", g.Date.Format("2006-01-02"),
			"rows", len(g.Table.Rows))
		path, err := c.ConvertDay(g)
		if err != nil {
			return outputs, fmt.Errorf("converting %s: %w", g.Date.Format("2006-01-02"), err)
		}
		if summary, err := amof.Summary(path); err != nil {
			c.logger.Warn("could not summarize written file", "path", path, "err", err)
		} else {
			c.logger.Info("wrote file", summary...)
		}
		outputs = append(outputs, path)
	}
	return outputs, nil
}

// ConvertDay writes, finalizes and renames the output file for one day group
// and returns the final path.
func (c *Converter) ConvertDay(g DayGroup) (string, error) {
	times, err := amof.Times(g.Timestamps())
	if err != nil {
		return "", err
	}
	bounds, err := Bounds(g.Table.Bins, c.cfg.ChannelMaxDiameter)
	if err != nil {
		return "", err
	}
	nt, nc := len(g.Table.Rows), len(g.Table.Bins)

	ds, err := amof.Create(c.outDir, c.cfg.Instrument, c.cfg.DefaultPlatform,
		times.FileDate, c.cfg.Version, c.product,
		map[string]int{amof.DimTime: nt, amof.DimIndex: nc})
	if err != nil {
		return "", err
	}

	lower, upper := BoundMatrices(bounds, nt)
	vars := []struct {
		name   string
		values interface{}
	}{
		{"ambient_aerosol_number_per_channel", ConcentrationMatrix(g)},
		{"measurement_channel_lower_limit", lower},
		{"measurement_channel_upper_limit", upper},
		{"time", times.Unix},
		{"day_of_year", times.DayOfYear},
		{"year", times.Year},
		{"month", times.Month},
		{"day", times.Day},
		{"hour", times.Hour},
		{"minute", times.Minute},
		{"second", times.Second},
		{"latitude", c.cfg.Latitude},
		{"longitude", c.cfg.Longitude},
	}
	for _, v := range vars {
		if err := ds.UpdateVariable(v.name, v.values); err != nil {
			return "", err
		}
	}

	ds.SetGlobalAttr("geospatial_bounds", fmt.Sprintf("%.4fN, %.4fE", c.cfg.Latitude, c.cfg.Longitude))
	ds.SetGlobalAttr("time_coverage_start", amof.FormatCoverage(times.CoverageStart))
	ds.SetGlobalAttr("time_coverage_end", amof.FormatCoverage(times.CoverageEnd))
	for _, a := range c.metadata {
		ds.SetGlobalAttr(a.Name, a.Value)
	}
	for _, name := range c.cfg.DeleteAttrs {
		ds.DeleteGlobalAttr(name)
	}

	if err := ds.Close(); err != nil {
		return "", err
	}
	if err := amof.RemoveEmptyVariables(ds.Path()); err != nil {
		return "", err
	}

	// The file-writing convention stamps the default platform into the
	// name; correct it to the actual deployment.
	final := filepath.Join(c.outDir, amof.FileName(
		c.cfg.Instrument, c.cfg.Platform, times.FileDate, c.product.Name, c.cfg.Version))
	if err := os.Rename(ds.Path(), final); err != nil {
		return "", fmt.Errorf("renaming to deployment platform: %w", err)
	}
	return final, nil
}
