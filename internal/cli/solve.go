package cli

import (
	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	solveMTBF     float64
	solveMTTR     float64
	solveTargetDF float64
	solvePMHours  float64
	solveCalendar float64
	solveCapacity float64
	solveUtil     float64
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Evaluate the availability equations for one parameter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Solve(app.SolveOptions{
			MTBF:            solveMTBF,
			MTTR:            solveMTTR,
			TargetDF:        solveTargetDF,
			PMHours:         solvePMHours,
			CalendarHours:   solveCalendar,
			CapacityPerHour: solveCapacity,
			Utilization:     solveUtil,
		})
	},
}

func init() {
	solveCmd.Flags().Float64Var(&solveMTBF, "mtbf", 0, "Mean time between failures in hours")
	solveCmd.Flags().Float64Var(&solveMTTR, "mttr", 0, "Mean time to repair in hours")
	solveCmd.Flags().Float64Var(&solveTargetDF, "target", 0, "Availability target to reverse-solve for")
	solveCmd.Flags().Float64Var(&solvePMHours, "pm-hours", 0, "Preventive hours in the period (for operational DF)")
	solveCmd.Flags().Float64Var(&solveCalendar, "calendar-hours", 0, "Calendar hours in the period (for operational DF)")
	solveCmd.Flags().Float64Var(&solveCapacity, "capacity", 0, "Production capacity per operating hour")
	solveCmd.Flags().Float64Var(&solveUtil, "utilization", 0, "Utilization fraction in (0,1]")
}
