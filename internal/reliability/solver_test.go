package reliability

import (
	"math"
	"testing"
)

func assertApprox(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f (tol %.6f)", name, got, want, tol)
	}
}

func TestAvailabilityKnownValues(t *testing.T) {
	tests := []struct {
		name       string
		mtbf, mttr float64
		want       float64
	}{
		{"typical haul truck", 500, 25, 500.0 / 525.0},
		{"balanced", 100, 100, 0.5},
		{"no repairs", 300, 0, 1.0},
		{"never runs", 0, 10, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := Availability(tt.mtbf, tt.mttr)
			if !sol.Feasible() {
				t.Fatalf("expected feasible, got %s", sol.State)
			}
			assertApprox(t, "availability", sol.Value, tt.want, 1e-12)
		})
	}
}

func TestAvailabilityZeroSafe(t *testing.T) {
	sol := Availability(0, 0)
	if !sol.Feasible() || sol.Value != 0 {
		t.Fatalf("Availability(0,0) = %+v, want feasible 0", sol)
	}
}

func TestAvailabilityRejectsInvalid(t *testing.T) {
	for _, pair := range [][2]float64{{-1, 10}, {10, -1}, {math.NaN(), 1}, {1, math.Inf(1)}} {
		if sol := Availability(pair[0], pair[1]); sol.State != StateInvalid {
			t.Errorf("Availability(%v,%v).State = %s, want invalid", pair[0], pair[1], sol.State)
		}
	}
}

func TestAvailabilityMonotonic(t *testing.T) {
	// Strictly increasing in MTBF for fixed MTTR.
	prev := -1.0
	for _, mtbf := range []float64{10, 50, 100, 500, 1000} {
		v := Availability(mtbf, 25).Value
		if v <= prev {
			t.Fatalf("availability not increasing in mtbf: %v after %v", v, prev)
		}
		prev = v
	}

	// Strictly decreasing in MTTR for fixed MTBF.
	prev = 2.0
	for _, mttr := range []float64{1, 5, 25, 100, 400} {
		v := Availability(500, mttr).Value
		if v >= prev {
			t.Fatalf("availability not decreasing in mttr: %v after %v", v, prev)
		}
		prev = v
	}
}

func TestReverseSolveRoundTrip(t *testing.T) {
	pairs := []Parameters{
		{MTBF: 500, MTTR: 25},
		{MTBF: 120, MTTR: 8},
		{MTBF: 60, MTTR: 60},
		{MTBF: 2000, MTTR: 3},
	}

	for _, p := range pairs {
		df := Availability(p.MTBF, p.MTTR)
		if !df.Feasible() {
			t.Fatalf("availability infeasible for %+v", p)
		}

		mttr := MTTRForTarget(p.MTBF, df.Value)
		if !mttr.Feasible() {
			t.Fatalf("MTTRForTarget infeasible for %+v", p)
		}
		assertApprox(t, "mttr round trip", mttr.Value, p.MTTR, 1e-9)

		mtbf := MTBFForTarget(p.MTTR, df.Value)
		if !mtbf.Feasible() {
			t.Fatalf("MTBFForTarget infeasible for %+v", p)
		}
		assertApprox(t, "mtbf round trip", mtbf.Value, p.MTBF, 1e-9)
	}
}

func TestMTTRForTargetBoundaries(t *testing.T) {
	if sol := MTTRForTarget(500, 1.0); !sol.Feasible() || sol.Value != 0 {
		t.Errorf("MTTRForTarget(500, 1.0) = %+v, want feasible 0", sol)
	}
	if sol := MTTRForTarget(500, 0.0); sol.State != StateInfeasible {
		t.Errorf("MTTRForTarget(500, 0.0).State = %s, want infeasible", sol.State)
	}
	if sol := MTTRForTarget(500, -0.2); sol.State != StateInfeasible {
		t.Errorf("MTTRForTarget(500, -0.2).State = %s, want infeasible", sol.State)
	}

	sol := MTTRForTarget(500, 500.0/525.0)
	assertApprox(t, "mttr for 95.238% target", sol.Value, 25, 1e-9)
}

func TestMTBFForTargetBoundaries(t *testing.T) {
	sol := MTBFForTarget(25, 1.0)
	if sol.State != StateUnbounded {
		t.Fatalf("MTBFForTarget(25, 1.0).State = %s, want unbounded", sol.State)
	}
	if !math.IsInf(sol.Value, 1) {
		t.Fatalf("unbounded sentinel must be +Inf, got %v", sol.Value)
	}

	if sol := MTBFForTarget(25, 0.0); !sol.Feasible() || sol.Value != 0 {
		t.Errorf("MTBFForTarget(25, 0.0) = %+v, want feasible 0", sol)
	}

	sol = MTBFForTarget(25, 0.95)
	assertApprox(t, "mtbf for 95% target", sol.Value, 475, 1e-9)
}

func TestTotalDF(t *testing.T) {
	sol := TotalDF(Window{CalendarHours: 720, PMHours: 40, CorrectiveHours: 30})
	if !sol.Feasible() {
		t.Fatalf("expected feasible, got %s", sol.State)
	}
	assertApprox(t, "total DF", sol.Value, 650.0/720.0, 1e-12)

	// Downtime exceeding the calendar clamps to zero, not negative.
	sol = TotalDF(Window{CalendarHours: 100, PMHours: 80, CorrectiveHours: 50})
	if !sol.Feasible() || sol.Value != 0 {
		t.Fatalf("over-committed window = %+v, want feasible 0", sol)
	}

	if sol := TotalDF(Window{CalendarHours: 0, PMHours: 1}); sol.State != StateInvalid {
		t.Fatalf("zero calendar should be invalid, got %s", sol.State)
	}
}

func TestOperationalDFClamped(t *testing.T) {
	tests := []struct {
		name               string
		inherent, pm, cal  float64
		want               float64
	}{
		{"typical", 0.95, 40, 720, 0.95 - 40.0/720.0},
		{"pm dominates", 0.5, 720, 720, 0},
		{"absurd pm still clamps", 0.99, 5000, 720, 0},
		{"zero calendar passes inherent through", 0.93, 40, 0, 0.93},
		{"inherent above one clamps", 1.2, 0, 720, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := OperationalDF(tt.inherent, tt.pm, tt.cal)
			if !sol.Feasible() {
				t.Fatalf("expected feasible, got %s", sol.State)
			}
			assertApprox(t, "operational DF", sol.Value, tt.want, 1e-12)
			if sol.Value < 0 || sol.Value > 1 {
				t.Fatalf("operational DF %v outside [0,1]", sol.Value)
			}
		})
	}
}

func TestProduction(t *testing.T) {
	sol := Production(250, 0.9, 0.85, 8760)
	if !sol.Feasible() {
		t.Fatalf("expected feasible, got %s", sol.State)
	}
	assertApprox(t, "production", sol.Value, 250*8760*0.9*0.85, 1e-6)

	if sol := Production(math.NaN(), 0.9, 0.85, 8760); sol.State != StateInvalid {
		t.Errorf("NaN capacity should be invalid, got %s", sol.State)
	}
	if sol := Production(250, math.Inf(1), 0.85, 8760); sol.State != StateInvalid {
		t.Errorf("infinite DF should be invalid, got %s", sol.State)
	}
}

func TestConventionsDisagree(t *testing.T) {
	w := Window{CalendarHours: 720, PMHours: 40, CorrectiveHours: 30}
	p := Parameters{MTBF: 650.0 / 3.0, MTTR: 10}

	total := DF(ConventionTotal, w, p)
	assertApprox(t, "total convention", total.Value, 650.0/720.0, 1e-12)

	inherent := Availability(p.MTBF, p.MTTR).Value
	additive := DF(ConventionInherentAdditivePM, w, p)
	assertApprox(t, "additive convention", additive.Value, inherent-40.0/720.0, 1e-12)

	// The same inputs produce different numbers; both stay selectable.
	if total.Value == additive.Value {
		t.Fatal("conventions unexpectedly agree; test inputs no longer discriminate")
	}

	if sol := DF(Convention(99), w, p); sol.State != StateInvalid {
		t.Fatalf("unknown convention should be invalid, got %s", sol.State)
	}
}

func TestRetrofit(t *testing.T) {
	kpis := Retrofit(Window{CalendarHours: 720, PMHours: 40, CorrectiveHours: 30}, 3)

	assertApprox(t, "total DF", kpis.TotalDF.Value, 650.0/720.0, 1e-12)
	assertApprox(t, "mtbf", kpis.MTBF.Value, 650.0/3.0, 1e-9)
	assertApprox(t, "mttr", kpis.MTTR.Value, 10, 1e-9)
	inherent := (650.0 / 3.0) / (650.0/3.0 + 10.0)
	assertApprox(t, "inherent DF", kpis.InherentDF.Value, inherent, 1e-9)
}

func TestRetrofitZeroFailures(t *testing.T) {
	kpis := Retrofit(Window{CalendarHours: 720, PMHours: 40, CorrectiveHours: 0}, 0)

	if kpis.MTBF.State != StateUnbounded {
		t.Errorf("zero-failure MTBF should be unbounded, got %s", kpis.MTBF.State)
	}
	if !kpis.MTTR.Feasible() || kpis.MTTR.Value != 0 {
		t.Errorf("zero-failure MTTR = %+v, want feasible 0", kpis.MTTR)
	}
	if !kpis.InherentDF.Feasible() || kpis.InherentDF.Value != 1 {
		t.Errorf("zero-failure inherent DF = %+v, want feasible 1", kpis.InherentDF)
	}
}
