package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"fleet-reliability/internal/degradation"
	"fleet-reliability/internal/ingest"
	"fleet-reliability/internal/planner"
	"fleet-reliability/internal/report"
	"fleet-reliability/internal/storage"
)

// Plan fits the degradation curve from observations and recommends the
// cost-optimal preventive maintenance interval.
func (a *App) Plan(ctx context.Context, opts PlanOptions) error {
	if opts.Input == "" {
		return errors.New("--input is required")
	}

	obs, err := ingest.LoadObservations(opts.Input)
	if err != nil {
		return err
	}

	curve, err := degradation.Fit(obs, degradation.FitOptions{
		Samples:       opts.Samples,
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return err
	}

	costs := planner.CostModel{
		PMCost:                   decimal.NewFromFloat(opts.PMCost),
		CorrectiveCostPerFailure: decimal.NewFromFloat(opts.CorrectiveCost),
	}

	points, err := planner.CostCurve(curve, costs)
	if err != nil {
		return err
	}

	rec, err := planner.SelectInterval(curve, costs, planner.Options{
		TargetDF:      opts.TargetDF,
		ToleranceBand: opts.ToleranceBand,
	})
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("model", curve.Model.String()).
		Int("observations", len(obs)).
		Float64("optimal_hours", rec.OptimalTime).
		Msg("interval selection complete")

	printRecommendation(curve, rec, opts.TargetDF)

	if opts.CSVPath != "" {
		if err := report.WriteCostCurveCSV(opts.CSVPath, points); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if err := report.WritePlanPNG(opts.PNGPath, points, rec); err != nil {
			return err
		}
	}

	if opts.Persist {
		return a.persistRecommendation(ctx, opts, rec)
	}
	return nil
}

func (a *App) persistRecommendation(ctx context.Context, opts PlanOptions, rec *planner.Recommendation) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot persist recommendation")
	}
	if closeStore != nil {
		defer closeStore()
	}

	record := storage.Recommendation{
		Equipment:            opts.Equipment,
		Model:                rec.Model.String(),
		TargetDF:             opts.TargetDF,
		OptimalTime:          rec.OptimalTime,
		DFAtOptimal:          rec.DFAtOptimal,
		CostPerHour:          rec.CostPerHourAtOptimal,
		MaxTimeMeetingTarget: rec.MaxTimeMeetingTarget,
	}
	saved, err := store.InsertRecommendation(ctx, record)
	if err != nil {
		return err
	}
	a.Logger.Info().Int64("id", saved.ID).Msg("recommendation persisted")
	return nil
}

func printRecommendation(curve *degradation.Curve, rec *planner.Recommendation, target float64) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Model\tOptimal t (h)\tDF at optimal\tCost/h\tMax t at target\tTarget DF")

	maxT := "-"
	if rec.MaxTimeMeetingTarget != nil {
		maxT = fmt.Sprintf("%.1f", *rec.MaxTimeMeetingTarget)
	}
	fmt.Fprintf(writer, "%s\t%.1f\t%.4f\t%s\t%s\t%.4f\n",
		curve.Model,
		rec.OptimalTime,
		rec.DFAtOptimal,
		rec.CostPerHourAtOptimal.StringFixed(2),
		maxT,
		target,
	)
	writer.Flush()
}
