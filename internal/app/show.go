package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"fleet-reliability/internal/storage"
)

type kpiLister interface {
	ListRecentKPIPeriods(ctx context.Context, limit int) ([]storage.KPIPeriod, error)
}

type recLister interface {
	ListRecentRecommendations(ctx context.Context, limit int) ([]storage.Recommendation, error)
}

// Show prints recently persisted KPI periods or recommendations.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show records")
	}
	if closeStore != nil {
		defer closeStore()
	}

	switch opts.Kind {
	case "kpis":
		return showKPIs(ctx, store, opts.Limit)
	case "recommendations":
		return showRecommendations(ctx, store, opts.Limit)
	default:
		return fmt.Errorf("unknown kind %q (want kpis or recommendations)", opts.Kind)
	}
}

func showKPIs(ctx context.Context, store kpiLister, limit int) error {
	periods, err := store.ListRecentKPIPeriods(ctx, limit)
	if err != nil {
		return err
	}
	if len(periods) == 0 {
		fmt.Fprintln(os.Stdout, "no kpi periods found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Period\tTotal DF\tInherent DF\tMTBF (h)\tMTTR (h)\tFailures\tStatus\tError")
	for _, p := range periods {
		mtbf := "unbounded"
		if p.MTBF != nil {
			mtbf = fmt.Sprintf("%.1f", *p.MTBF)
		}
		errMsg := ""
		if p.Error != nil {
			errMsg = sanitizeInline(*p.Error)
		}
		fmt.Fprintf(writer, "%s\t%.4f\t%.4f\t%s\t%.1f\t%d\t%s\t%s\n",
			p.Period, p.TotalDF, p.InherentDF, mtbf, p.MTTR, p.Failures, p.Status, errMsg)
	}
	writer.Flush()
	return nil
}

func showRecommendations(ctx context.Context, store recLister, limit int) error {
	recs, err := store.ListRecentRecommendations(ctx, limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "no recommendations found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Created (UTC)\tEquipment\tModel\tTarget DF\tOptimal t (h)\tDF at optimal\tCost/h")
	for _, r := range recs {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%.4f\t%.1f\t%.4f\t%s\n",
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Equipment,
			r.Model,
			r.TargetDF,
			r.OptimalTime,
			r.DFAtOptimal,
			r.CostPerHour.StringFixed(2),
		)
	}
	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
