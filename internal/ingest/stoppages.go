package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// StoppageRecord is one downtime event read from a stoppage workbook.
type StoppageRecord struct {
	Date          time.Time
	Machine       string
	Fleet         string
	DowntimeHours float64
	Sheet         string
}

var (
	stoppageDateColumns = []string{
		"data", "data_inicio", "data_da_parada", "data_parada", "date", "inicio", "start", "timestamp", "dia",
	}
	stoppageMachineColumns = []string{
		"equipamento", "asset", "maquina", "prefixo", "tag", "codigo", "id", "fleet_number", "unit", "machine",
	}
	stoppageFleetColumns = []string{
		"frota", "familia", "familia_equipamento", "tipo", "grupo", "classe", "categoria", "fleet",
	}
	stoppageDowntimeColumns = []string{
		"horas_paradas", "horas_de_parada", "duracao_horas", "duracao", "downtime_h", "downtime",
		"tempo_parado_h", "tempo_parado", "horas", "tempo",
	}
)

var stoppageDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01-02-06",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	time.RFC3339,
}

// Hours beyond this are treated as data-entry garbage, mirroring the
// historical sanity filter.
const maxPlausibleDowntimeHours = 1e6

// ReadStoppageWorkbook combines every readable sheet of an Excel stoppage
// report into one record set. Columns are auto-detected from normalized
// headers; the fleet is inferred from the machine prefix when the sheet has
// no fleet column; rows with negative or implausible hours are dropped.
func ReadStoppageWorkbook(path string) ([]StoppageRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook %s: %w", path, err)
	}
	defer f.Close()

	var records []StoppageRecord
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		records = append(records, parseStoppageSheet(sheet, rows)...)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("ingest: %s: no readable stoppage rows in any sheet", path)
	}
	return records, nil
}

func parseStoppageSheet(sheet string, rows [][]string) []StoppageRecord {
	header := normalizeHeader(rows[0])
	dateIdx := pickColumn(header, stoppageDateColumns)
	machineIdx := pickColumn(header, stoppageMachineColumns)
	fleetIdx := pickColumn(header, stoppageFleetColumns)
	downtimeIdx := pickColumn(header, stoppageDowntimeColumns)
	if machineIdx < 0 || downtimeIdx < 0 {
		return nil
	}

	var records []StoppageRecord
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		hours, err := cellFloat(row, downtimeIdx)
		if err != nil || hours < 0 || hours >= maxPlausibleDowntimeHours {
			continue
		}

		machine := cellString(row, machineIdx)
		if machine == "" {
			continue
		}

		rec := StoppageRecord{
			Machine:       machine,
			DowntimeHours: hours,
			Sheet:         sheet,
		}

		if fleetIdx >= 0 && cellString(row, fleetIdx) != "" {
			rec.Fleet = strings.ToUpper(normalizeColumn(cellString(row, fleetIdx)))
		} else {
			rec.Fleet = inferFleet(machine)
		}

		if dateIdx >= 0 {
			rec.Date = parseStoppageDate(cellString(row, dateIdx))
		}

		records = append(records, rec)
	}
	return records
}

func parseStoppageDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range stoppageDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
