package app

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"fleet-reliability/internal/grid"
	"fleet-reliability/internal/report"
)

// Grid evaluates the MTBF x MTTR availability matrix around a current
// operating point and writes it as CSV.
func (a *App) Grid(opts GridOptions) error {
	if opts.MTBF <= 0 || opts.MTTR <= 0 {
		return errors.New("--mtbf and --mttr must be positive")
	}

	mtbfAxis := grid.Range(opts.MTBF, opts.Resolution)
	mttrAxis := grid.Range(opts.MTTR, opts.Resolution)

	matrix, err := grid.Evaluate(mtbfAxis, mttrAxis)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Int("resolution", opts.Resolution).
		Float64("mtbf_center", opts.MTBF).
		Float64("mttr_center", opts.MTTR).
		Msg("availability matrix evaluated")

	if opts.CSVPath != "" {
		if err := report.WriteGridCSV(opts.CSVPath, matrix); err != nil {
			return err
		}
	}

	if opts.TargetDF > 0 {
		printBoundary(matrix, opts.TargetDF)
	}
	return nil
}

func printBoundary(matrix *grid.Matrix, target float64) {
	cells := matrix.Boundary(target)
	if len(cells) == 0 {
		fmt.Fprintf(os.Stdout, "no feasibility boundary for target %.4f inside the explored range\n", target)
		return
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "MTBF (h)\tMTTR (h)\tDF")
	for _, c := range cells {
		fmt.Fprintf(writer, "%.1f\t%.1f\t%.4f\n",
			matrix.MTBF[c.Col],
			matrix.MTTR[c.Row],
			matrix.DF[c.Row][c.Col],
		)
	}
	writer.Flush()
}
