package ingest

import (
	"context"
	"fmt"
	"strings"

	"fleet-reliability/internal/reliability"
)

// PeriodRecord is one historical maintenance accounting period.
type PeriodRecord struct {
	Period   string
	Window   reliability.Window
	Failures int
}

// HistoryLoader supplies historical periods to the watch service. The CSV
// file loader is the production implementation; tests substitute fakes.
type HistoryLoader interface {
	LoadHistory(ctx context.Context) ([]PeriodRecord, error)
}

var (
	periodColumns     = []string{"period", "periodo", "mes", "month"}
	calendarColumns   = []string{"calendar_hours", "horas_calendario", "horas_periodo"}
	pmColumns         = []string{"pm_hours", "preventive_hours", "horas_preventiva", "preventiva"}
	correctiveColumns = []string{"corrective_hours", "horas_corretiva", "corretiva"}
)

// FileHistoryLoader reads period records from a fixed CSV/XLSX path on each
// call, so the watch loop picks up appended periods without restarting.
type FileHistoryLoader struct {
	Path string
}

// LoadHistory implements HistoryLoader.
func (l *FileHistoryLoader) LoadHistory(_ context.Context) ([]PeriodRecord, error) {
	return LoadHistory(l.Path)
}

// LoadHistory reads a per-period maintenance table with the columns
// period, calendar_hours, pm_hours, corrective_hours, num_failures.
func LoadHistory(path string) ([]PeriodRecord, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ingest: %s: no data rows", path)
	}

	header := normalizeHeader(rows[0])
	periodIdx := pickColumn(header, periodColumns)
	calIdx := pickColumn(header, calendarColumns)
	pmIdx := pickColumn(header, pmColumns)
	corIdx := pickColumn(header, correctiveColumns)
	failIdx := pickColumn(header, failureColumns)
	if periodIdx < 0 || calIdx < 0 || pmIdx < 0 || corIdx < 0 || failIdx < 0 {
		return nil, fmt.Errorf("%w: need period/calendar/pm/corrective/failures in %s", ErrMissingColumns, path)
	}

	records := make([]PeriodRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		cal, err := cellFloat(row, calIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: calendar: %w", path, line+2, err)
		}
		pm, err := cellFloat(row, pmIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: pm: %w", path, line+2, err)
		}
		cor, err := cellFloat(row, corIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: corrective: %w", path, line+2, err)
		}
		failures, err := cellFloat(row, failIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: failures: %w", path, line+2, err)
		}

		records = append(records, PeriodRecord{
			Period: cellString(row, periodIdx),
			Window: reliability.Window{
				CalendarHours:   cal,
				PMHours:         pm,
				CorrectiveHours: cor,
			},
			Failures: int(failures),
		})
	}
	return records, nil
}

func cellString(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
