package ingest

import (
	"fmt"

	"fleet-reliability/internal/fleet"
)

var (
	equipmentColumns        = []string{"equipment", "equipamento", "machine", "maquina", "prefixo"}
	correctiveRealColumns   = []string{"corrective_real", "corretiva_real", "corrective_real_hours"}
	preventiveRealColumns   = []string{"preventive_real", "preventiva_real", "preventive_real_hours"}
	budgetDFColumns         = []string{"budget_df", "orcado_df", "budget_df_pct"}
	correctiveBudgetColumns = []string{"corrective_budget_month", "cor_orc_mes", "corrective_budget"}
	preventiveBudgetColumns = []string{"preventive_budget_month", "prev_orc_mes", "preventive_budget"}
)

// LoadFleet reads per-equipment budget rows for month-end projection.
// Budget DF values above 1 are interpreted as percentages.
func LoadFleet(path string) ([]fleet.Equipment, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ingest: %s: no data rows", path)
	}

	header := normalizeHeader(rows[0])
	idIdx := pickColumn(header, equipmentColumns)
	corRealIdx := pickColumn(header, correctiveRealColumns)
	prevRealIdx := pickColumn(header, preventiveRealColumns)
	budgetIdx := pickColumn(header, budgetDFColumns)
	corBudgetIdx := pickColumn(header, correctiveBudgetColumns)
	prevBudgetIdx := pickColumn(header, preventiveBudgetColumns)
	mtbfIdx := pickColumn(header, mtbfColumns)
	mttrIdx := pickColumn(header, mttrColumns)

	if idIdx < 0 || corRealIdx < 0 || prevRealIdx < 0 || budgetIdx < 0 ||
		corBudgetIdx < 0 || prevBudgetIdx < 0 {
		return nil, fmt.Errorf("%w: fleet table in %s", ErrMissingColumns, path)
	}

	rowsOut := make([]fleet.Equipment, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}

		eq := fleet.Equipment{ID: cellString(row, idIdx)}
		var err error
		if eq.CorrectiveRealHours, err = cellFloat(row, corRealIdx); err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: corrective real: %w", path, line+2, err)
		}
		if eq.PreventiveRealHours, err = cellFloat(row, prevRealIdx); err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: preventive real: %w", path, line+2, err)
		}
		if eq.BudgetDF, err = cellFloat(row, budgetIdx); err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: budget df: %w", path, line+2, err)
		}
		if eq.BudgetDF > 1 {
			eq.BudgetDF /= 100
		}
		if eq.CorrectiveBudgetHours, err = cellFloat(row, corBudgetIdx); err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: corrective budget: %w", path, line+2, err)
		}
		if eq.PreventiveBudgetHours, err = cellFloat(row, prevBudgetIdx); err != nil {
			return nil, fmt.Errorf("ingest: %s line %d: preventive budget: %w", path, line+2, err)
		}
		if mtbfIdx >= 0 {
			if eq.MTBF, err = cellFloat(row, mtbfIdx); err != nil {
				return nil, fmt.Errorf("ingest: %s line %d: mtbf: %w", path, line+2, err)
			}
		}
		if mttrIdx >= 0 {
			if eq.MTTR, err = cellFloat(row, mttrIdx); err != nil {
				return nil, fmt.Errorf("ingest: %s line %d: mttr: %w", path, line+2, err)
			}
		}
		rowsOut = append(rowsOut, eq)
	}
	return rowsOut, nil
}
