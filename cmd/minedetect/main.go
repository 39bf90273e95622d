// Command minedetect runs the mining-disturbance detection pipeline
// against an NDVI time-series GeoTIFF and a bare-coal probability
// raster, writing seven labelled GeoTIFFs to an output directory.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ndvi-mining/minedetect/internal/pipeline"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		startYear  int
		workers    int
		chunkSize  int
		p1, p2     float64
	)

	cmd := &cobra.Command{
		Use:   "minedetect <ndvi.tif> <coal.tif> <out-dir>",
		Short: "Detect open-pit mining disturbance and recovery from an NDVI stack",
		Long: `minedetect classifies each pixel of a multi-year NDVI GeoTIFF against
49 canonical disturbance/recovery trajectories via DTW nearest-neighbour
matching, cross-validates the result against a bare-coal probability
raster, and writes seven labelled GeoTIFFs to the output directory.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pipeline.Config{}
			if configPath != "" {
				loaded, err := pipeline.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}

			if cmd.Flags().Changed("startyear") {
				cfg.StartYear = &startYear
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = &workers
			}
			if cmd.Flags().Changed("chunk-size") {
				cfg.ChunkSize = &chunkSize
			}
			if cmd.Flags().Changed("p1") {
				cfg.P1 = &p1
			}
			if cmd.Flags().Changed("p2") {
				cfg.P2 = &p2
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths, err := pipeline.Detect(ctx, args[0], args[1], args[2], cfg)
			if err != nil {
				return err
			}

			for _, name := range []string{
				"mining_disturbance_mask",
				"mining_disturbance_year",
				"mining_recovery_year",
				"potential_disturbance",
				"res_disturbance_type",
				"year_disturbance_raw",
				"year_recovery_raw",
			} {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, paths[name])
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON config file (partial overrides are fine)")
	cmd.Flags().IntVar(&startYear, "startyear", 1984, "calendar year of the NDVI stack's first band")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPU cores)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 2000, "pixels dispatched to a worker per claim")
	cmd.Flags().Float64Var(&p1, "p1", 0.8, "first disturbance amplitude factor")
	cmd.Flags().Float64Var(&p2, "p2", 0.6, "second disturbance amplitude factor")

	return cmd
}
