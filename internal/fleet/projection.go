// Package fleet projects each equipment's month-end physical availability
// from real maintenance hours accrued so far and the remaining monthly
// downtime budget.
package fleet

import (
	"errors"
	"fmt"
	"time"

	"fleet-reliability/internal/reliability"
)

// ErrInvalidEquipment is returned for malformed fleet rows.
var ErrInvalidEquipment = errors.New("fleet: invalid equipment row")

// Equipment is one fleet row: actuals to date plus the monthly budget.
type Equipment struct {
	ID                     string
	CorrectiveRealHours    float64
	PreventiveRealHours    float64
	BudgetDF               float64 // fraction
	CorrectiveBudgetHours  float64 // full-month budget
	PreventiveBudgetHours  float64 // full-month budget
	MTBF                   float64
	MTTR                   float64
}

// Projection is the computed month-end outlook for one equipment.
type Projection struct {
	Equipment          string
	CorrectiveBalance  float64 // budget minus real; negative = overrun
	PreventiveBalance  float64
	DowntimeRealTotal  float64
	DowntimeFuture     float64
	BudgetDF           float64
	ProjectedDF        float64
	InherentDF         float64
	Delta              float64
	OnTarget           bool
}

// Summary consolidates a fleet of projections.
type Summary struct {
	Equipment       int
	OnTarget        int
	DowntimeReal    float64
	DowntimeFuture  float64
	MeanProjectedDF float64
	MeanBudgetDF    float64
}

// Project computes the month-end DF outlook for every row against the
// calendar month containing reportDate. Remaining budgeted hours (clamped
// at zero on overrun) are assumed fully consumed by month end; the
// projected DF follows the Total convention over the whole month.
func Project(rows []Equipment, reportDate time.Time) ([]Projection, error) {
	calendarHours := hoursInMonth(reportDate)

	projections := make([]Projection, 0, len(rows))
	for _, eq := range rows {
		if eq.ID == "" || eq.CorrectiveRealHours < 0 || eq.PreventiveRealHours < 0 ||
			eq.CorrectiveBudgetHours < 0 || eq.PreventiveBudgetHours < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEquipment, eq.ID)
		}

		corBalance := eq.CorrectiveBudgetHours - eq.CorrectiveRealHours
		prevBalance := eq.PreventiveBudgetHours - eq.PreventiveRealHours

		futureCor := corBalance
		if futureCor < 0 {
			futureCor = 0
		}
		futurePrev := prevBalance
		if futurePrev < 0 {
			futurePrev = 0
		}

		window := reliability.Window{
			CalendarHours:   calendarHours,
			PMHours:         eq.PreventiveRealHours + futurePrev,
			CorrectiveHours: eq.CorrectiveRealHours + futureCor,
		}
		projected := reliability.TotalDF(window)
		if !projected.Feasible() {
			return nil, fmt.Errorf("%w: %q: projected DF %s", ErrInvalidEquipment, eq.ID, projected.State)
		}

		inherent := reliability.Availability(eq.MTBF, eq.MTTR)

		p := Projection{
			Equipment:         eq.ID,
			CorrectiveBalance: corBalance,
			PreventiveBalance: prevBalance,
			DowntimeRealTotal: eq.CorrectiveRealHours + eq.PreventiveRealHours,
			DowntimeFuture:    futureCor + futurePrev,
			BudgetDF:          eq.BudgetDF,
			ProjectedDF:       projected.Value,
			InherentDF:        inherent.Value,
			Delta:             projected.Value - eq.BudgetDF,
		}
		p.OnTarget = p.Delta >= 0
		projections = append(projections, p)
	}

	return projections, nil
}

// Summarize consolidates fleet-level figures from per-equipment projections.
func Summarize(projections []Projection) Summary {
	s := Summary{Equipment: len(projections)}
	if len(projections) == 0 {
		return s
	}

	var sumProjected, sumBudget float64
	for _, p := range projections {
		if p.OnTarget {
			s.OnTarget++
		}
		s.DowntimeReal += p.DowntimeRealTotal
		s.DowntimeFuture += p.DowntimeFuture
		sumProjected += p.ProjectedDF
		sumBudget += p.BudgetDF
	}
	s.MeanProjectedDF = sumProjected / float64(len(projections))
	s.MeanBudgetDF = sumBudget / float64(len(projections))
	return s
}

func hoursInMonth(date time.Time) float64 {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	return next.Sub(first).Hours()
}
