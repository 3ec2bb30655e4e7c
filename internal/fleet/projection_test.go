package fleet

import (
	"math"
	"testing"
	"time"
)

func assertApprox(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f (tol %.6f)", name, got, want, tol)
	}
}

func TestProjectSingleEquipment(t *testing.T) {
	// October: 31 days = 744 calendar hours.
	reportDate := time.Date(2025, time.October, 24, 0, 0, 0, 0, time.UTC)
	rows := []Equipment{{
		ID:                    "PF05",
		CorrectiveRealHours:   21.29,
		PreventiveRealHours:   36.00,
		BudgetDF:              0.75,
		CorrectiveBudgetHours: 59.40,
		PreventiveBudgetHours: 110.10,
		MTBF:                  300,
		MTTR:                  10,
	}}

	projections, err := Project(rows, reportDate)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(projections) != 1 {
		t.Fatalf("len = %d, want 1", len(projections))
	}
	p := projections[0]

	assertApprox(t, "corrective balance", p.CorrectiveBalance, 59.40-21.29, 1e-9)
	assertApprox(t, "preventive balance", p.PreventiveBalance, 110.10-36.00, 1e-9)
	assertApprox(t, "real downtime", p.DowntimeRealTotal, 57.29, 1e-9)
	assertApprox(t, "future downtime", p.DowntimeFuture, 38.11+74.10, 1e-9)

	// Full budget assumed consumed: DF = (744 - 59.40 - 110.10) / 744.
	assertApprox(t, "projected DF", p.ProjectedDF, (744-59.40-110.10)/744, 1e-9)
	assertApprox(t, "inherent DF", p.InherentDF, 300.0/310.0, 1e-9)

	if !p.OnTarget {
		t.Errorf("delta %.4f should be on target", p.Delta)
	}
}

func TestProjectOverrunClampsFutureDowntime(t *testing.T) {
	reportDate := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC) // 720h month
	rows := []Equipment{{
		ID:                    "TE11",
		CorrectiveRealHours:   120,
		PreventiveRealHours:   40,
		BudgetDF:              0.90,
		CorrectiveBudgetHours: 60, // already overrun by 60h
		PreventiveBudgetHours: 50,
		MTBF:                  150,
		MTTR:                  25,
	}}

	projections, err := Project(rows, reportDate)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	p := projections[0]

	if p.CorrectiveBalance >= 0 {
		t.Fatalf("expected negative corrective balance, got %.2f", p.CorrectiveBalance)
	}
	// Overrun contributes no *future* corrective downtime; only the
	// remaining preventive budget (10h) is still ahead.
	assertApprox(t, "future downtime", p.DowntimeFuture, 10, 1e-9)
	assertApprox(t, "projected DF", p.ProjectedDF, (720-120-40-10)/720.0, 1e-9)

	if p.OnTarget {
		t.Errorf("projected %.4f vs budget %.4f should be off target", p.ProjectedDF, p.BudgetDF)
	}
}

func TestProjectRejectsMalformedRows(t *testing.T) {
	reportDate := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	if _, err := Project([]Equipment{{ID: "", MTBF: 1}}, reportDate); err == nil {
		t.Fatal("empty id should error")
	}
	if _, err := Project([]Equipment{{ID: "X", CorrectiveRealHours: -1}}, reportDate); err == nil {
		t.Fatal("negative hours should error")
	}
}

func TestSummarize(t *testing.T) {
	projections := []Projection{
		{ProjectedDF: 0.9, BudgetDF: 0.85, OnTarget: true, DowntimeRealTotal: 50, DowntimeFuture: 20},
		{ProjectedDF: 0.7, BudgetDF: 0.85, OnTarget: false, DowntimeRealTotal: 120, DowntimeFuture: 10},
	}

	s := Summarize(projections)
	if s.Equipment != 2 || s.OnTarget != 1 {
		t.Fatalf("summary counts = %+v", s)
	}
	assertApprox(t, "real downtime", s.DowntimeReal, 170, 1e-9)
	assertApprox(t, "future downtime", s.DowntimeFuture, 30, 1e-9)
	assertApprox(t, "mean projected", s.MeanProjectedDF, 0.8, 1e-9)
	assertApprox(t, "mean budget", s.MeanBudgetDF, 0.85, 1e-9)
}
