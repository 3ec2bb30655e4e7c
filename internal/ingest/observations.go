// Package ingest loads the plain numeric tables the planner consumes:
// post-PM degradation observations, historical maintenance periods, fleet
// budget rows, and raw stoppage workbooks. The computational core never
// touches files; everything enters through this package.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fleet-reliability/internal/degradation"
)

// ErrMissingColumns is returned when a required header cannot be located.
var ErrMissingColumns = errors.New("ingest: required columns not found")

var (
	timeSincePMColumns = []string{"time_since_pm_hours", "time_since_pm", "horas_desde_pm", "t"}
	mtbfColumns        = []string{"mtbf_observed", "mtbf", "mtbf_h"}
	mttrColumns        = []string{"mttr_observed", "mttr", "mttr_h"}
	failureColumns     = []string{"num_failures", "failures", "falhas"}
)

// LoadObservations reads a degradation observation table from a CSV file or
// the first sheet of an Excel workbook, keyed by header name; descriptive
// extra columns are ignored. Rows are sorted by time since PM.
func LoadObservations(path string) ([]degradation.Observation, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ingest: %s: no data rows", path)
	}

	header := normalizeHeader(rows[0])
	timeIdx := pickColumn(header, timeSincePMColumns)
	mtbfIdx := pickColumn(header, mtbfColumns)
	mttrIdx := pickColumn(header, mttrColumns)
	failIdx := pickColumn(header, failureColumns)
	if timeIdx < 0 || mtbfIdx < 0 || mttrIdx < 0 {
		return nil, fmt.Errorf("%w: need time/mtbf/mttr in %s", ErrMissingColumns, path)
	}

	obs := make([]degradation.Observation, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		t, err := cellFloat(row, timeIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: time: %w", path, line+2, err)
		}
		mtbf, err := cellFloat(row, mtbfIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: mtbf: %w", path, line+2, err)
		}
		mttr, err := cellFloat(row, mttrIdx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: mttr: %w", path, line+2, err)
		}

		o := degradation.Observation{TimeSincePM: t, MTBF: mtbf, MTTR: mttr}
		if failIdx >= 0 {
			n, err := cellFloat(row, failIdx)
			if err != nil {
				return nil, fmt.Errorf("ingest: %s line %d: failures: %w", path, line+2, err)
			}
			o.Failures = int(n)
		}
		obs = append(obs, o)
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].TimeSincePM < obs[j].TimeSincePM })
	return obs, nil
}

// readTable returns all rows of a CSV file, or of the first sheet when the
// extension is .xlsx.
func readTable(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readFirstSheet(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer file.Close()

	return readCSV(file, path)
}

func readCSV(r io.Reader, path string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	return rows, nil
}

func readFirstSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ingest: %s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ingest: read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func cellFloat(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, errors.New("missing cell")
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return 0, errors.New("empty cell")
	}
	// Tolerate decimal commas from pt-BR spreadsheets.
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", row[idx], err)
	}
	return v, nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
