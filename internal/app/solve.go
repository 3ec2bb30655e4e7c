package app

import (
	"errors"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"fleet-reliability/internal/reliability"
)

// Solve evaluates the availability equations once and prints the results.
// With both --mtbf and --mttr it reports the inherent DF; with a --target it
// additionally reverse-solves whichever parameter was given.
func (a *App) Solve(opts SolveOptions) error {
	if opts.MTBF <= 0 && opts.MTTR <= 0 {
		return errors.New("at least one of --mtbf or --mttr is required")
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Quantity\tValue\tState")

	if opts.MTBF > 0 && opts.MTTR >= 0 {
		df := reliability.Availability(opts.MTBF, opts.MTTR)
		writeSolution(writer, "Inherent DF", df)

		if opts.PMHours > 0 && opts.CalendarHours > 0 && df.Feasible() {
			op := reliability.OperationalDF(df.Value, opts.PMHours, opts.CalendarHours)
			writeSolution(writer, "Operational DF", op)

			if opts.CapacityPerHour > 0 && opts.Utilization > 0 && op.Feasible() {
				prod := reliability.Production(opts.CapacityPerHour, op.Value, opts.Utilization, opts.CalendarHours)
				writeSolution(writer, "Production (units)", prod)
			}
		}
	}

	if opts.TargetDF != 0 {
		if opts.MTBF > 0 {
			mttr := reliability.MTTRForTarget(opts.MTBF, opts.TargetDF)
			writeSolution(writer, "Required MTTR (h)", mttr)
		}
		if opts.MTTR > 0 {
			mtbf := reliability.MTBFForTarget(opts.MTTR, opts.TargetDF)
			writeSolution(writer, "Required MTBF (h)", mtbf)
		}
	}

	writer.Flush()
	return nil
}

func writeSolution(writer *tabwriter.Writer, label string, s reliability.Solution) {
	value := "-"
	switch {
	case math.IsInf(s.Value, 1):
		value = "unbounded"
	case s.Feasible():
		value = fmt.Sprintf("%.4f", s.Value)
	}
	fmt.Fprintf(writer, "%s\t%s\t%s\n", label, value, s.State)
}
