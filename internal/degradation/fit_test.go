package degradation

import (
	"errors"
	"math"
	"testing"
)

func assertApprox(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f (tol %.6f)", name, got, want, tol)
	}
}

func syntheticExponential(a, b, c float64, ts []float64) []Observation {
	obs := make([]Observation, len(ts))
	for i, t := range ts {
		obs[i] = Observation{
			TimeSincePM: t,
			MTBF:        a*math.Exp(-b*t) + c,
			MTTR:        20,
			Failures:    i,
		}
	}
	return obs
}

func TestFitInsufficientData(t *testing.T) {
	tests := []struct {
		name string
		obs  []Observation
	}{
		{"empty", nil},
		{"single point", []Observation{{TimeSincePM: 0, MTBF: 200, MTTR: 10}}},
		{"duplicate times only", []Observation{
			{TimeSincePM: 50, MTBF: 180, MTTR: 10},
			{TimeSincePM: 50, MTBF: 175, MTTR: 12},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.obs, FitOptions{})
			if !errors.Is(err, ErrInsufficientData) {
				t.Fatalf("err = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestFitRejectsMalformedObservations(t *testing.T) {
	tests := []struct {
		name string
		obs  []Observation
	}{
		{"out of order", []Observation{
			{TimeSincePM: 100, MTBF: 150, MTTR: 10},
			{TimeSincePM: 0, MTBF: 200, MTTR: 10},
		}},
		{"non-positive mtbf", []Observation{
			{TimeSincePM: 0, MTBF: 0, MTTR: 10},
			{TimeSincePM: 100, MTBF: 150, MTTR: 10},
		}},
		{"nan time", []Observation{
			{TimeSincePM: math.NaN(), MTBF: 200, MTTR: 10},
			{TimeSincePM: 100, MTBF: 150, MTTR: 10},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.obs, FitOptions{})
			if !errors.Is(err, ErrInvalidObservation) {
				t.Fatalf("err = %v, want ErrInvalidObservation", err)
			}
		})
	}
}

func TestFitTwoPointsUsesInterpolation(t *testing.T) {
	obs := []Observation{
		{TimeSincePM: 0, MTBF: 200, MTTR: 10},
		{TimeSincePM: 100, MTBF: 120, MTTR: 30},
	}

	curve, err := Fit(obs, FitOptions{Samples: 50})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if curve.Model != ModelInterpolated {
		t.Fatalf("two-point fit should interpolate, got model %s", curve.Model)
	}
	if len(curve.Points) != 50 {
		t.Fatalf("len(Points) = %d, want 50", len(curve.Points))
	}

	// The interpolated curve must pass exactly through both observations.
	first := curve.Points[0]
	last := curve.Points[len(curve.Points)-1]
	assertApprox(t, "first point t", first.T, 0, 1e-12)
	assertApprox(t, "first point mtbf", first.MTBF, 200, 1e-12)
	assertApprox(t, "last point t", last.T, 100, 1e-12)
	assertApprox(t, "last point mtbf", last.MTBF, 120, 1e-12)

	// Midpoint is the straight-line value.
	assertApprox(t, "midpoint mtbf", curve.MTBFAt(50), 160, 1e-9)
	assertApprox(t, "midpoint mttr", curve.MTTRAt(50), 20, 1e-9)
}

func TestFitRecoversExponential(t *testing.T) {
	const a, b, c = 150.0, 0.012, 50.0
	ts := []float64{0, 40, 80, 120, 160, 200}
	obs := syntheticExponential(a, b, c, ts)

	curve, err := Fit(obs, FitOptions{})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if curve.Model != ModelExponential {
		t.Fatalf("clean exponential data should fit, got model %s", curve.Model)
	}
	if len(curve.Points) != defaultSamples {
		t.Fatalf("len(Points) = %d, want %d", len(curve.Points), defaultSamples)
	}

	// The fitted curve should track the generating model closely, including
	// between the observation times.
	for _, probe := range []float64{10, 55, 97, 143, 188} {
		want := a*math.Exp(-b*probe) + c
		assertApprox(t, "fitted mtbf", curve.MTBFAt(probe), want, 1.0)
	}
}

func TestFitFallbackOnExhaustedBudget(t *testing.T) {
	obs := []Observation{
		{TimeSincePM: 0, MTBF: 210, MTTR: 10},
		{TimeSincePM: 50, MTBF: 140, MTTR: 14},
		{TimeSincePM: 100, MTBF: 168, MTTR: 18},
		{TimeSincePM: 150, MTBF: 95, MTTR: 22},
		{TimeSincePM: 200, MTBF: 118, MTTR: 26},
	}

	curve, err := Fit(obs, FitOptions{Samples: 40, MaxIterations: 1})
	if err != nil {
		t.Fatalf("fallback must not surface as an error: %v", err)
	}

	if curve.Model != ModelInterpolated {
		t.Fatalf("exhausted budget should fall back to interpolation, got %s", curve.Model)
	}

	// Same output contract as the fitted path: requested point count over
	// the observed domain.
	if len(curve.Points) != 40 {
		t.Fatalf("len(Points) = %d, want 40", len(curve.Points))
	}
	assertApprox(t, "domain start", curve.Points[0].T, 0, 1e-12)
	assertApprox(t, "domain end", curve.Points[len(curve.Points)-1].T, 200, 1e-12)

	// Fallback passes through the raw observations.
	assertApprox(t, "observed point", curve.MTBFAt(150), 95, 1e-9)
}

func TestCurveFlatExtrapolation(t *testing.T) {
	obs := []Observation{
		{TimeSincePM: 10, MTBF: 200, MTTR: 10},
		{TimeSincePM: 110, MTBF: 100, MTTR: 20},
	}

	curve, err := Fit(obs, FitOptions{Samples: 20})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	assertApprox(t, "below range", curve.MTBFAt(0), 200, 1e-9)
	assertApprox(t, "above range", curve.MTBFAt(500), 100, 1e-9)
	assertApprox(t, "mttr above range", curve.MTTRAt(500), 20, 1e-9)
}
