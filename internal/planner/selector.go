// Package planner selects the cost-optimal preventive-maintenance interval
// from a fitted degradation curve and a maintenance cost model.
package planner

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fleet-reliability/internal/degradation"
	"fleet-reliability/internal/reliability"
)

var (
	// ErrInfeasibleTarget is returned for availability targets outside (0,1).
	ErrInfeasibleTarget = errors.New("planner: availability target must be strictly between 0 and 1")
	// ErrInvalidCostModel is returned for negative costs.
	ErrInvalidCostModel = errors.New("planner: costs must be non-negative")
	// ErrEmptyCurve is returned when no usable samples exist (e.g. the curve
	// only covers t = 0).
	ErrEmptyCurve = errors.New("planner: no usable curve samples")
)

// CostModel carries the two scalar maintenance costs.
type CostModel struct {
	PMCost                   decimal.Decimal
	CorrectiveCostPerFailure decimal.Decimal
}

// Options tune interval selection.
type Options struct {
	// TargetDF is the availability target in (0,1).
	TargetDF float64
	// ToleranceBand scales the target for candidate filtering; samples with
	// DF >= ToleranceBand*TargetDF stay in the candidate set. Zero takes the
	// default of 0.95.
	ToleranceBand float64
}

const defaultToleranceBand = 0.95

// CostPoint is one evaluated sample of the cost-per-hour objective.
type CostPoint struct {
	T           float64
	MTBF        float64
	MTTR        float64
	DF          float64
	Failures    float64
	CostPerHour decimal.Decimal
}

// Recommendation is the selected intervention point.
type Recommendation struct {
	OptimalTime          float64
	DFAtOptimal          float64
	CostPerHourAtOptimal decimal.Decimal
	// MaxTimeMeetingTarget is the largest sampled time whose DF meets the
	// target exactly (no tolerance); nil when no sample does.
	MaxTimeMeetingTarget *float64
	Model                degradation.ModelKind
}

// CostCurve evaluates cumulative cost per operating hour over every curve
// sample with t > 0. Cumulative failures are reconstructed as t/mtbf(t) so
// both fitting paths are treated identically.
func CostCurve(curve *degradation.Curve, costs CostModel) ([]CostPoint, error) {
	if costs.PMCost.IsNegative() || costs.CorrectiveCostPerFailure.IsNegative() {
		return nil, ErrInvalidCostModel
	}

	points := make([]CostPoint, 0, len(curve.Points))
	for _, p := range curve.Points {
		if p.T <= 0 || p.MTBF <= 0 {
			// Cost per hour is undefined at t = 0.
			continue
		}

		failures := p.T / p.MTBF
		total := costs.PMCost.Add(costs.CorrectiveCostPerFailure.Mul(decimal.NewFromFloat(failures)))
		perHour := total.Div(decimal.NewFromFloat(p.T))

		df := reliability.Availability(p.MTBF, p.MTTR)
		if !df.Feasible() {
			return nil, fmt.Errorf("planner: availability at t=%.2f: %s", p.T, df.State)
		}

		points = append(points, CostPoint{
			T:           p.T,
			MTBF:        p.MTBF,
			MTTR:        p.MTTR,
			DF:          df.Value,
			Failures:    failures,
			CostPerHour: perHour,
		})
	}

	if len(points) == 0 {
		return nil, ErrEmptyCurve
	}
	return points, nil
}

// SelectInterval picks the sampled time minimizing cost per operating hour
// among samples whose DF stays within the tolerance band below the target.
// When the band filters out every sample the full set is used instead, so a
// recommendation is always produced for a non-empty curve. Ties resolve to
// the earliest time.
func SelectInterval(curve *degradation.Curve, costs CostModel, opts Options) (*Recommendation, error) {
	if opts.TargetDF <= 0 || opts.TargetDF >= 1 {
		return nil, ErrInfeasibleTarget
	}
	band := opts.ToleranceBand
	if band == 0 {
		band = defaultToleranceBand
	}

	points, err := CostCurve(curve, costs)
	if err != nil {
		return nil, err
	}

	threshold := band * opts.TargetDF
	candidates := make([]CostPoint, 0, len(points))
	for _, p := range points {
		if p.DF >= threshold {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = points
	}

	best := candidates[0]
	for _, p := range candidates[1:] {
		// Strict comparison keeps the earliest of equal minima.
		if p.CostPerHour.LessThan(best.CostPerHour) {
			best = p
		}
	}

	rec := &Recommendation{
		OptimalTime:          best.T,
		DFAtOptimal:          best.DF,
		CostPerHourAtOptimal: best.CostPerHour,
		Model:                curve.Model,
	}

	for _, p := range points {
		if p.DF >= opts.TargetDF {
			t := p.T
			if rec.MaxTimeMeetingTarget == nil || t > *rec.MaxTimeMeetingTarget {
				rec.MaxTimeMeetingTarget = &t
			}
		}
	}

	return rec, nil
}
