package cli

import (
	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	planInput          string
	planEquipment      string
	planTargetDF       float64
	planToleranceBand  float64
	planPMCost         float64
	planCorrectiveCost float64
	planSamples        int
	planMaxIterations  int
	planCSVPath        string
	planPNGPath        string
	planPersist        bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Recommend the cost-optimal preventive maintenance interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getApp().Config

		opts := app.PlanOptions{
			Input:          planInput,
			Equipment:      planEquipment,
			TargetDF:       planTargetDF,
			ToleranceBand:  planToleranceBand,
			PMCost:         planPMCost,
			CorrectiveCost: planCorrectiveCost,
			Samples:        planSamples,
			MaxIterations:  planMaxIterations,
			CSVPath:        planCSVPath,
			PNGPath:        planPNGPath,
			Persist:        planPersist,
		}
		if opts.TargetDF == 0 {
			opts.TargetDF = cfg.Planner.TargetDF
		}
		if opts.ToleranceBand == 0 {
			opts.ToleranceBand = cfg.Planner.ToleranceBand
		}
		if opts.PMCost == 0 {
			opts.PMCost = cfg.Costs.PM
		}
		if opts.CorrectiveCost == 0 {
			opts.CorrectiveCost = cfg.Costs.CorrectivePerFailure
		}
		if opts.Samples == 0 {
			opts.Samples = cfg.Planner.CurveSamples
		}
		if opts.MaxIterations == 0 {
			opts.MaxIterations = cfg.Planner.FitMaxIterations
		}

		return getApp().Plan(cmd.Context(), opts)
	},
}

func init() {
	planCmd.Flags().StringVar(&planInput, "input", "", "CSV or XLSX file with degradation observations")
	planCmd.Flags().StringVar(&planEquipment, "equipment", "", "Equipment identifier recorded with the recommendation")
	planCmd.Flags().Float64Var(&planTargetDF, "target", 0, "Availability target in (0,1) (defaults to config)")
	planCmd.Flags().Float64Var(&planToleranceBand, "tolerance", 0, "Candidate filter band as a fraction of target (defaults to config)")
	planCmd.Flags().Float64Var(&planPMCost, "pm-cost", 0, "Cost of one preventive intervention (defaults to config)")
	planCmd.Flags().Float64Var(&planCorrectiveCost, "corrective-cost", 0, "Cost of one corrective failure (defaults to config)")
	planCmd.Flags().IntVar(&planSamples, "samples", 0, "Curve sample count (defaults to config)")
	planCmd.Flags().IntVar(&planMaxIterations, "max-iterations", 0, "Fitting iteration cap (defaults to config)")
	planCmd.Flags().StringVar(&planCSVPath, "csv", "", "Path to write the cost curve as CSV")
	planCmd.Flags().StringVar(&planPNGPath, "png", "", "Path to write the plan chart as PNG")
	planCmd.Flags().BoolVar(&planPersist, "persist", false, "Persist the recommendation to the database")
}
