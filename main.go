// Command ncas-opc-1-software converts optical particle counter CSV output
// into per-day AMOF aerosol-size-distribution NetCDF files.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncasuk/ncas-opc-1-software/internal/amof"
	"github.com/ncasuk/ncas-opc-1-software/internal/opc"
)

var (
	netcdfLocation string
	metadataFile   string
	configFile     string
)

var rootCmd = &cobra.Command{
	Use:   "ncas-opc-1-software [flags] input.csv",
	Short: "Convert ncas-opc-1 CSV data to AMOF NetCDF files",
	Long: `Reads an optical particle counter CSV file (first column ISO-8601
timestamps, remaining columns size-bin counts per litre) and writes one
AMOF-convention aerosol-size-distribution NetCDF file per UTC calendar day.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

		cfg := opc.DefaultConfig()
		if configFile != "" {
			var err error
			cfg, err = opc.LoadConfig(configFile)
			if err != nil {
				return err
			}
		}

		metadata, err := amof.ReadMetadata(metadataFile)
		if err != nil {
			return err
		}

		conv := opc.NewConverter(cfg, logger, netcdfLocation, metadata)
		outputs, err := conv.Run(args[0])
		if err != nil {
			return err
		}
		logger.Info("conversion complete", "files", len(outputs))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&netcdfLocation, "netcdf-location", "n", ".",
		"directory to write the NetCDF files to")
	rootCmd.Flags().StringVarP(&metadataFile, "metadata-file", "m", "metadata.csv",
		"key/value CSV file of global attributes to merge into each file")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "",
		"optional YAML instrument-config file overriding the built-in deployment constants")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		logger.Error("Conversion failed", "err", err)
		os.Exit(1)
	}
}
