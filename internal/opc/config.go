package opc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config collects the deployment constants of one instrument. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	// Instrument is the archive name of the instrument.
	Instrument string `yaml:"instrument"`
	// DefaultPlatform is the platform label the file-writing convention
	// embeds in new file names.
	DefaultPlatform string `yaml:"default_platform"`
	// Platform is the corrected deployment label the files are renamed to.
	Platform string `yaml:"platform"`
	// Version is the product version segment of the file name.
	Version string `yaml:"version"`

	// Fixed deployment coordinates, decimal degrees.
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`

	// ChannelMaxDiameter caps the last measurement channel, in the same
	// unit as the size-bin column headers (micrometres).
	ChannelMaxDiameter float64 `yaml:"channel_max_diameter"`

	// DeleteAttrs are convention global attributes that do not apply to
	// this instrument type and are removed from every file.
	DeleteAttrs []string `yaml:"delete_attributes"`
}

// DefaultConfig is the ncas-opc-1 deployment at the Magdalena Ridge
// ("kiva-2-lab") site.
func DefaultConfig() Config {
	return Config{
		Instrument:         "ncas-opc-1",
		DefaultPlatform:    "mobile",
		Platform:           "kiva-2-lab",
		Version:            "v1.0",
		Latitude:           33.9913,
		Longitude:          -107.1880,
		ChannelMaxDiameter: 32.0,
		DeleteAttrs: []string{
			"dma_inner_radius",
			"dma_outer_radius",
			"dma_length",
			"impactor_orifice_diameter",
		},
	}
}

// LoadConfig reads a YAML instrument-config file over the defaults. Fields
// absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can name output files.
func (c Config) Validate() error {
	switch {
	case c.Instrument == "":
		return fmt.Errorf("instrument name is empty")
	case c.DefaultPlatform == "":
		return fmt.Errorf("default platform is empty")
	case c.Platform == "":
		return fmt.Errorf("platform is empty")
	case c.Version == "":
		return fmt.Errorf("version is empty")
	case c.ChannelMaxDiameter <= 0:
		return fmt.Errorf("channel max diameter must be positive")
	}
	return nil
}
