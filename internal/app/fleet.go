package app

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"fleet-reliability/internal/fleet"
	"fleet-reliability/internal/ingest"
)

// Fleet projects the month-end availability outlook for every equipment
// row in the input table.
func (a *App) Fleet(opts FleetOptions) error {
	if opts.Input == "" {
		return errors.New("--input is required")
	}

	rows, err := ingest.LoadFleet(opts.Input)
	if err != nil {
		return err
	}

	projections, err := fleet.Project(rows, opts.Date)
	if err != nil {
		return err
	}
	summary := fleet.Summarize(projections)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Equipment\tProjected DF\tBudget DF\tDelta\tFuture downtime (h)\tOn target")
	for _, p := range projections {
		fmt.Fprintf(writer, "%s\t%.4f\t%.4f\t%+.4f\t%.1f\t%v\n",
			p.Equipment,
			p.ProjectedDF,
			p.BudgetDF,
			p.Delta,
			p.DowntimeFuture,
			p.OnTarget,
		)
	}
	writer.Flush()

	a.Logger.Info().
		Int("equipment", summary.Equipment).
		Int("on_target", summary.OnTarget).
		Float64("mean_projected_df", summary.MeanProjectedDF).
		Msg("fleet projection complete")

	fmt.Fprintf(os.Stdout, "\n%d/%d equipment on target, mean projected DF %.4f (budget %.4f)\n",
		summary.OnTarget, summary.Equipment, summary.MeanProjectedDF, summary.MeanBudgetDF)
	return nil
}
