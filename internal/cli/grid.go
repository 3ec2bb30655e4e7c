package cli

import (
	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	gridMTBF       float64
	gridMTTR       float64
	gridResolution int
	gridTargetDF   float64
	gridCSVPath    string
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Evaluate the MTBF x MTTR availability matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getApp().Config

		opts := app.GridOptions{
			MTBF:       gridMTBF,
			MTTR:       gridMTTR,
			Resolution: gridResolution,
			TargetDF:   gridTargetDF,
			CSVPath:    gridCSVPath,
		}
		if opts.Resolution == 0 {
			opts.Resolution = cfg.Grid.Resolution
		}
		if opts.TargetDF == 0 {
			opts.TargetDF = cfg.Planner.TargetDF
		}

		return getApp().Grid(opts)
	},
}

func init() {
	gridCmd.Flags().Float64Var(&gridMTBF, "mtbf", 0, "Current MTBF in hours (axis center)")
	gridCmd.Flags().Float64Var(&gridMTTR, "mttr", 0, "Current MTTR in hours (axis center)")
	gridCmd.Flags().IntVar(&gridResolution, "resolution", 0, "Points per axis (defaults to config)")
	gridCmd.Flags().Float64Var(&gridTargetDF, "target", 0, "Availability target for the boundary print (defaults to config)")
	gridCmd.Flags().StringVar(&gridCSVPath, "csv", "", "Path to write the matrix as CSV")
}
