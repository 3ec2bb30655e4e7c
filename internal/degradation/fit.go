// Package degradation estimates how MTBF decays as operating time since the
// last preventive maintenance grows. The primary model is an exponential
// decay fit to the observed samples; when the fit does not converge the
// package falls back to piecewise-linear interpolation so downstream
// consumers always receive a curve with the same shape and domain.
package degradation

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInsufficientData is returned when fewer than two distinct
	// observation times are available.
	ErrInsufficientData = errors.New("degradation: need at least two distinct observations")
	// ErrInvalidObservation is returned for non-finite or negative fields.
	ErrInvalidObservation = errors.New("degradation: invalid observation")
)

// Observation is one post-PM reliability sample.
type Observation struct {
	TimeSincePM float64
	MTBF        float64
	MTTR        float64
	Failures    int
}

// ModelKind tags which fitting path produced a curve.
type ModelKind int

const (
	// ModelExponential marks a converged a*exp(-b*t)+c nonlinear fit.
	ModelExponential ModelKind = iota
	// ModelInterpolated marks the piecewise-linear fallback.
	ModelInterpolated
)

func (k ModelKind) String() string {
	switch k {
	case ModelExponential:
		return "exponential"
	case ModelInterpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

// ExpParams are the parameters of mtbf(t) = A*exp(-B*t) + C.
type ExpParams struct {
	A float64
	B float64
	C float64
}

// Point is one sample of the produced curve. MTTR is carried alongside so
// availability can be evaluated at any sampled time.
type Point struct {
	T    float64
	MTBF float64
	MTTR float64
}

// Curve is the continuous MTBF estimate, densely sampled over the observed
// time range. Both fitting paths honor the same contract: len(Points) equals
// the requested sample count and spans [first, last] observed time.
type Curve struct {
	Model  ModelKind
	Params ExpParams // meaningful only when Model == ModelExponential
	Points []Point
}

// MTBFAt evaluates the curve at time t, flat beyond the sampled range.
func (c *Curve) MTBFAt(t float64) float64 {
	return sampleAt(c.Points, t, func(p Point) float64 { return p.MTBF })
}

// MTTRAt evaluates the interpolated MTTR at time t, flat beyond the range.
func (c *Curve) MTTRAt(t float64) float64 {
	return sampleAt(c.Points, t, func(p Point) float64 { return p.MTTR })
}

// FitOptions bound the fitting work. Zero values take defaults.
type FitOptions struct {
	// Samples is the number of curve points to produce (default 100).
	Samples int
	// MaxIterations caps the nonlinear optimizer (default 200).
	MaxIterations int
}

const (
	defaultSamples       = 100
	defaultMaxIterations = 200
	initialDecayRate     = 0.005
)

// Fit produces an MTBF degradation curve from ordered observations.
// Fewer than two distinct observation times is an error; a non-convergent
// nonlinear fit is not: it silently degrades to linear interpolation,
// observable through Curve.Model.
func Fit(obs []Observation, opts FitOptions) (*Curve, error) {
	if opts.Samples <= 0 {
		opts.Samples = defaultSamples
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = defaultMaxIterations
	}

	if err := validate(obs); err != nil {
		return nil, err
	}

	ts := make([]float64, len(obs))
	mtbfs := make([]float64, len(obs))
	mttrs := make([]float64, len(obs))
	for i, o := range obs {
		ts[i] = o.TimeSincePM
		mtbfs[i] = o.MTBF
		mttrs[i] = o.MTTR
	}

	if distinctCount(ts) < 2 {
		return nil, ErrInsufficientData
	}

	curve := &Curve{Model: ModelInterpolated}

	// Three free parameters need at least three distinct times for a
	// determined fit; two points go straight to interpolation.
	if distinctCount(ts) >= 3 {
		params, ok := fitExponential(ts, mtbfs, opts.MaxIterations)
		if ok {
			curve.Model = ModelExponential
			curve.Params = params
		}
	}

	curve.Points = sampleCurve(curve, ts, mtbfs, mttrs, opts.Samples)
	return curve, nil
}

func validate(obs []Observation) error {
	prev := math.Inf(-1)
	for i, o := range obs {
		if !isFinite(o.TimeSincePM) || o.TimeSincePM < 0 ||
			!isFinite(o.MTBF) || o.MTBF <= 0 ||
			!isFinite(o.MTTR) || o.MTTR < 0 || o.Failures < 0 {
			return fmt.Errorf("%w: index %d", ErrInvalidObservation, i)
		}
		if o.TimeSincePM < prev {
			return fmt.Errorf("%w: index %d out of order", ErrInvalidObservation, i)
		}
		prev = o.TimeSincePM
	}
	if len(obs) < 2 {
		return ErrInsufficientData
	}
	return nil
}

func distinctCount(ts []float64) int {
	n := 0
	prev := math.NaN()
	for _, t := range ts {
		if t != prev {
			n++
			prev = t
		}
	}
	return n
}

func sampleCurve(curve *Curve, ts, mtbfs, mttrs []float64, samples int) []Point {
	t0 := ts[0]
	t1 := ts[len(ts)-1]
	points := make([]Point, samples)
	for i := range points {
		var t float64
		if samples == 1 {
			t = t0
		} else {
			t = t0 + (t1-t0)*float64(i)/float64(samples-1)
		}
		var mtbf float64
		if curve.Model == ModelExponential {
			mtbf = curve.Params.A*math.Exp(-curve.Params.B*t) + curve.Params.C
		} else {
			mtbf = interpolate(ts, mtbfs, t)
		}
		points[i] = Point{T: t, MTBF: mtbf, MTTR: interpolate(ts, mttrs, t)}
	}
	return points
}

// fitExponential runs a Levenberg-Marquardt minimization of the squared
// residuals of a*exp(-b*t)+c. Initial guess: a near the first observation,
// slow decay, c near the last observation. Returns ok=false when the
// optimizer exhausts its budget or produces non-finite parameters.
func fitExponential(ts, ys []float64, maxIter int) (ExpParams, bool) {
	a := ys[0]
	b := initialDecayRate
	c := ys[len(ys)-1]

	lambda := 1e-3
	cost := residualCost(ts, ys, a, b, c)
	converged := false

	for iter := 0; iter < maxIter; iter++ {
		var jtj [3][3]float64
		var jtr [3]float64

		for i := range ts {
			e := math.Exp(-b * ts[i])
			r := a*e + c - ys[i]
			j := [3]float64{e, -a * ts[i] * e, 1}
			for m := 0; m < 3; m++ {
				jtr[m] += j[m] * r
				for n := 0; n < 3; n++ {
					jtj[m][n] += j[m] * j[n]
				}
			}
		}

		damped := jtj
		for m := 0; m < 3; m++ {
			damped[m][m] += lambda * jtj[m][m]
			if damped[m][m] == 0 {
				damped[m][m] = lambda
			}
		}

		delta, ok := solve3(damped, [3]float64{-jtr[0], -jtr[1], -jtr[2]})
		if !ok {
			return ExpParams{}, false
		}

		na, nb, nc := a+delta[0], b+delta[1], c+delta[2]
		newCost := residualCost(ts, ys, na, nb, nc)

		if isFinite(newCost) && newCost < cost {
			stepSize := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1] + delta[2]*delta[2])
			improvement := cost - newCost
			a, b, c = na, nb, nc
			cost = newCost
			lambda /= 10
			if lambda < 1e-12 {
				lambda = 1e-12
			}
			if stepSize < 1e-9 || improvement < 1e-12*(1+cost) {
				converged = true
				break
			}
		} else {
			lambda *= 10
			if lambda > 1e10 {
				break
			}
		}
	}

	if !converged {
		return ExpParams{}, false
	}
	if !isFinite(a) || !isFinite(b) || !isFinite(c) {
		return ExpParams{}, false
	}
	return ExpParams{A: a, B: b, C: c}, true
}

func residualCost(ts, ys []float64, a, b, c float64) float64 {
	var sum float64
	for i := range ts {
		r := a*math.Exp(-b*ts[i]) + c - ys[i]
		sum += r * r
	}
	return sum
}

// solve3 solves a 3x3 linear system by Gaussian elimination with partial
// pivoting. ok=false when the matrix is singular.
func solve3(m [3][3]float64, rhs [3]float64) ([3]float64, bool) {
	var aug [3][4]float64
	for i := 0; i < 3; i++ {
		copy(aug[i][:3], m[i][:])
		aug[i][3] = rhs[i]
	}

	for col := 0; col < 3; col++ {
		pivot := col
		for row := col + 1; row < 3; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-14 {
			return [3]float64{}, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		for row := col + 1; row < 3; row++ {
			f := aug[row][col] / aug[col][col]
			for k := col; k < 4; k++ {
				aug[row][k] -= f * aug[col][k]
			}
		}
	}

	var x [3]float64
	for row := 2; row >= 0; row-- {
		v := aug[row][3]
		for k := row + 1; k < 3; k++ {
			v -= aug[row][k] * x[k]
		}
		x[row] = v / aug[row][row]
	}
	return x, true
}

// interpolate evaluates a piecewise-linear function through (ts, ys) at t,
// extrapolated flat beyond the observed range.
func interpolate(ts, ys []float64, t float64) float64 {
	if t <= ts[0] {
		return ys[0]
	}
	last := len(ts) - 1
	if t >= ts[last] {
		return ys[last]
	}

	hi := sort.SearchFloat64s(ts, t)
	lo := hi - 1
	for lo > 0 && ts[lo] == ts[hi] {
		lo--
	}
	if ts[hi] == ts[lo] {
		return ys[hi]
	}
	frac := (t - ts[lo]) / (ts[hi] - ts[lo])
	return ys[lo] + frac*(ys[hi]-ys[lo])
}

func sampleAt(points []Point, t float64, pick func(Point) float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if t <= points[0].T {
		return pick(points[0])
	}
	last := len(points) - 1
	if t >= points[last].T {
		return pick(points[last])
	}
	hi := sort.Search(len(points), func(i int) bool { return points[i].T >= t })
	lo := hi - 1
	span := points[hi].T - points[lo].T
	if span == 0 {
		return pick(points[hi])
	}
	frac := (t - points[lo].T) / span
	return pick(points[lo]) + frac*(pick(points[hi])-pick(points[lo]))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
