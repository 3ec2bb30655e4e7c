// Package report renders analysis outputs for humans: CSV tables, PNG
// charts and the HTML stoppage report. The computational packages never
// format anything themselves.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fleet-reliability/internal/grid"
	"fleet-reliability/internal/planner"
)

// WriteCostCurveCSV dumps the evaluated cost curve alongside the sampled
// reliability figures.
func WriteCostCurveCSV(path string, points []planner.CostPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"time_since_pm_hours", "mtbf", "mttr", "df", "cumulative_failures", "cost_per_hour"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		record := []string{
			formatFloat(p.T),
			formatFloat(p.MTBF),
			formatFloat(p.MTTR),
			formatFloat(p.DF),
			formatFloat(p.Failures),
			p.CostPerHour.StringFixed(4),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// WriteGridCSV dumps a DF matrix with the MTBF axis as the header row and
// the MTTR axis as the first column.
func WriteGridCSV(path string, m *grid.Matrix) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, 0, len(m.MTBF)+1)
	header = append(header, "mttr\\mtbf")
	for _, v := range m.MTBF {
		header = append(header, formatFloat(v))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, mttr := range m.MTTR {
		record := make([]string, 0, len(m.MTBF)+1)
		record = append(record, formatFloat(mttr))
		for _, df := range m.DF[i] {
			record = append(record, fmt.Sprintf("%.6f", df))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
