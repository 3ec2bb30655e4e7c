package reliability

import "math"

// Convention selects which physical-availability formula is in effect.
// The two conventions produce different numbers for the same inputs and are
// both used by historical reports; they are kept as distinct named
// strategies rather than reconciled.
type Convention int

const (
	// ConventionTotal computes DF from calendar, PM and corrective hours.
	ConventionTotal Convention = iota
	// ConventionInherentAdditivePM computes DF from MTBF/MTTR and subtracts
	// a PM-impact term additively.
	ConventionInherentAdditivePM
)

func (c Convention) String() string {
	switch c {
	case ConventionTotal:
		return "total"
	case ConventionInherentAdditivePM:
		return "inherent_additive_pm"
	default:
		return "unknown"
	}
}

// State tags a solver outcome. Boundary conditions of the availability
// equations are anticipated domain results, not program errors, so they are
// returned as tagged values instead of Go errors.
type State int

const (
	// StateFeasible marks a well-defined finite result.
	StateFeasible State = iota
	// StateInfeasible marks a reverse solve that is mathematically
	// undefined for the given inputs.
	StateInfeasible
	// StateUnbounded marks a reverse solve whose exact answer is infinite;
	// Value carries +Inf as the documented sentinel.
	StateUnbounded
	// StateInvalid marks non-finite or out-of-domain inputs rejected before
	// any computation.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateFeasible:
		return "feasible"
	case StateInfeasible:
		return "infeasible"
	case StateUnbounded:
		return "unbounded"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Solution is the tagged result of a solver operation.
type Solution struct {
	Value float64
	State State
}

// Feasible reports whether the solution carries a usable finite value.
func (s Solution) Feasible() bool { return s.State == StateFeasible }

func feasible(v float64) Solution { return Solution{Value: v, State: StateFeasible} }
func infeasible() Solution { return Solution{State: StateInfeasible} }
func unbounded() Solution { return Solution{Value: math.Inf(1), State: StateUnbounded} }
func invalid() Solution { return Solution{Value: math.NaN(), State: StateInvalid} }

// Parameters is an instantaneous reliability/maintainability pair.
type Parameters struct {
	MTBF float64
	MTTR float64
}

// Window describes one maintenance accounting period.
type Window struct {
	CalendarHours   float64
	PMHours         float64
	CorrectiveHours float64
}

// Availability returns the inherent physical availability MTBF/(MTBF+MTTR).
// A zero denominator yields 0 by convention, never an error; negative or
// non-finite inputs are rejected as invalid.
func Availability(mtbf, mttr float64) Solution {
	if !finiteNonNegative(mtbf) || !finiteNonNegative(mttr) {
		return invalid()
	}
	denom := mtbf + mttr
	if denom == 0 {
		return feasible(0)
	}
	return feasible(mtbf / denom)
}

// MTTRForTarget solves the inherent-availability equation for MTTR.
// Boundary convention: target >= 1 returns a feasible 0 ("no repair time
// needed"); target <= 0 is infeasible (any repair time at all breaks it).
func MTTRForTarget(mtbf, target float64) Solution {
	if !finiteNonNegative(mtbf) || math.IsNaN(target) {
		return invalid()
	}
	if target >= 1 {
		return feasible(0)
	}
	if target <= 0 {
		return infeasible()
	}
	return feasible(mtbf * (1 - target) / target)
}

// MTBFForTarget solves the inherent-availability equation for MTBF.
// Boundary convention: target >= 1 is unbounded (infinite MTBF required,
// reported as the +Inf sentinel); target <= 0 returns a feasible 0.
func MTBFForTarget(mttr, target float64) Solution {
	if !finiteNonNegative(mttr) || math.IsNaN(target) {
		return invalid()
	}
	if target >= 1 {
		return unbounded()
	}
	if target <= 0 {
		return feasible(0)
	}
	return feasible(mttr * target / (1 - target))
}

// TotalDF computes physical availability under the Total convention:
// (calendar - pm - corrective) / calendar, clamped to [0,1]. Windows whose
// downtime exceeds the calendar clamp to zero rather than erroring.
func TotalDF(w Window) Solution {
	if !finitePositive(w.CalendarHours) || !finiteNonNegative(w.PMHours) || !finiteNonNegative(w.CorrectiveHours) {
		return invalid()
	}
	df := (w.CalendarHours - w.PMHours - w.CorrectiveHours) / w.CalendarHours
	return feasible(clamp01(df))
}

// OperationalDF reduces an inherent availability by the additive PM-impact
// term pm/calendar. The adjustment is deliberately additive, not
// multiplicative, to stay consistent with historically produced numbers.
// The result is clamped to [0,1]; a zero calendar leaves the inherent value
// untouched.
func OperationalDF(inherent, pmHours, calendarHours float64) Solution {
	if math.IsNaN(inherent) || !finiteNonNegative(pmHours) || !finiteNonNegative(calendarHours) {
		return invalid()
	}
	if calendarHours == 0 {
		return feasible(clamp01(inherent))
	}
	return feasible(clamp01(inherent - pmHours/calendarHours))
}

// Production computes projected output over a calendar window at the given
// operational availability and utilization.
func Production(capacityPerHour, operationalDF, utilization, calendarHours float64) Solution {
	for _, v := range []float64{capacityPerHour, operationalDF, utilization, calendarHours} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid()
		}
	}
	return feasible(capacityPerHour * calendarHours * operationalDF * utilization)
}

// DF evaluates physical availability for a window under the selected
// convention. The two conventions disagree for the same inputs; callers
// pick one explicitly and the numbers are never reconciled.
func DF(c Convention, w Window, p Parameters) Solution {
	switch c {
	case ConventionTotal:
		return TotalDF(w)
	case ConventionInherentAdditivePM:
		inherent := Availability(p.MTBF, p.MTTR)
		if !inherent.Feasible() {
			return inherent
		}
		return OperationalDF(inherent.Value, w.PMHours, w.CalendarHours)
	default:
		return invalid()
	}
}

// PeriodKPIs are the per-period reliability figures retrofit from a
// maintenance accounting window.
type PeriodKPIs struct {
	TotalDF    Solution
	InherentDF Solution
	MTBF       Solution
	MTTR       Solution
}

// Retrofit derives MTBF, MTTR and both DF figures from one historical
// accounting window. A period with zero failures has unbounded MTBF and a
// feasible zero MTTR.
func Retrofit(w Window, failures int) PeriodKPIs {
	kpis := PeriodKPIs{TotalDF: TotalDF(w)}
	if !kpis.TotalDF.Feasible() || failures < 0 {
		kpis.InherentDF = invalid()
		kpis.MTBF = invalid()
		kpis.MTTR = invalid()
		return kpis
	}

	operating := w.CalendarHours - w.PMHours - w.CorrectiveHours
	if operating < 0 {
		operating = 0
	}

	if failures == 0 {
		kpis.MTBF = unbounded()
		kpis.MTTR = feasible(0)
		kpis.InherentDF = feasible(1)
		return kpis
	}

	mtbf := operating / float64(failures)
	mttr := w.CorrectiveHours / float64(failures)
	kpis.MTBF = feasible(mtbf)
	kpis.MTTR = feasible(mttr)
	kpis.InherentDF = Availability(mtbf, mttr)
	return kpis
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func finitePositive(v float64) bool {
	return finiteNonNegative(v) && v > 0
}
