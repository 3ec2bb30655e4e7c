package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"fleet-reliability/internal/ingest"
	"fleet-reliability/internal/reliability"
	"fleet-reliability/internal/storage"
)

// KPIs retrofits reliability figures onto every historical period and
// prints them; with --persist the rows are also upserted.
func (a *App) KPIs(ctx context.Context, opts KPIOptions) error {
	path := opts.HistoryPath
	if path == "" {
		path = a.Config.History.Path
	}
	if path == "" {
		return errors.New("history path not provided")
	}

	records, err := ingest.LoadHistory(path)
	if err != nil {
		return err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Period < records[j].Period
	})

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Period\tTotal DF\tInherent DF\tMTBF (h)\tMTTR (h)\tFailures")

	rows := make([]storage.KPIPeriod, 0, len(records))
	for _, rec := range records {
		kpis := reliability.Retrofit(rec.Window, rec.Failures)

		mtbf := "unbounded"
		var mtbfPtr *float64
		if kpis.MTBF.Feasible() && !math.IsInf(kpis.MTBF.Value, 0) {
			mtbf = fmt.Sprintf("%.1f", kpis.MTBF.Value)
			v := kpis.MTBF.Value
			mtbfPtr = &v
		}
		fmt.Fprintf(writer, "%s\t%.4f\t%.4f\t%s\t%.1f\t%d\n",
			rec.Period,
			kpis.TotalDF.Value,
			kpis.InherentDF.Value,
			mtbf,
			kpis.MTTR.Value,
			rec.Failures,
		)

		rows = append(rows, storage.KPIPeriod{
			Period:          rec.Period,
			CalendarHours:   rec.Window.CalendarHours,
			PMHours:         rec.Window.PMHours,
			CorrectiveHours: rec.Window.CorrectiveHours,
			Failures:        rec.Failures,
			TotalDF:         kpis.TotalDF.Value,
			InherentDF:      kpis.InherentDF.Value,
			MTBF:            mtbfPtr,
			MTTR:            kpis.MTTR.Value,
			Status:          "complete",
		})
	}
	writer.Flush()

	if !opts.Persist {
		return nil
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot persist kpis")
	}
	if closeStore != nil {
		defer closeStore()
	}

	for _, row := range rows {
		if err := store.UpsertKPIPeriod(ctx, row); err != nil {
			return err
		}
	}
	a.Logger.Info().Int("periods", len(rows)).Msg("kpi periods persisted")
	return nil
}
