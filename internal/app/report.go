package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"fleet-reliability/internal/ingest"
	"fleet-reliability/internal/report"
)

// Report aggregates a stoppage workbook into fleet and machine summaries
// and optionally renders them as a standalone HTML page.
func (a *App) Report(opts ReportOptions) error {
	if opts.Workbook == "" {
		return errors.New("--workbook is required")
	}

	records, err := ingest.ReadStoppageWorkbook(opts.Workbook)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.Logger.Warn().Str("workbook", opts.Workbook).Msg("workbook contained no stoppage rows")
		return nil
	}

	rpt := report.BuildStoppageReport(records, filepath.Base(opts.Workbook), time.Now().UTC())

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Fleet summary for %s\n", rpt.CurrentPeriod)
	fmt.Fprintln(writer, "Fleet\tEvents\tStopped hours")
	for _, row := range rpt.ByFleetCurrent {
		fmt.Fprintf(writer, "%s\t%d\t%.1f\n", row.Fleet, row.Events, row.StoppedHours)
	}
	writer.Flush()

	if opts.HTMLPath == "" {
		return nil
	}

	file, err := os.Create(opts.HTMLPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := report.RenderStoppageHTML(file, rpt); err != nil {
		return err
	}
	a.Logger.Info().Str("path", opts.HTMLPath).Msg("stoppage report rendered")
	return nil
}
