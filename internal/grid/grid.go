// Package grid evaluates the inherent-availability formula over a
// rectangular MTBF x MTTR matrix, used to render feasibility maps around a
// current operating point.
package grid

import (
	"errors"

	"fleet-reliability/internal/reliability"
)

// ErrInvalidRange is returned for empty or malformed axis ranges.
var ErrInvalidRange = errors.New("grid: axis ranges must be non-empty")

// Matrix is a DF surface: DF[i][j] corresponds to (MTTR[i], MTBF[j]).
type Matrix struct {
	MTBF []float64
	MTTR []float64
	DF   [][]float64
}

// Cell addresses one matrix entry.
type Cell struct {
	Row int // MTTR index
	Col int // MTBF index
}

// Range builds the default exploration axis around a current value:
// evenly spaced from max(1, 0.2*center) to 2*center.
func Range(center float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	lo := 0.2 * center
	if lo < 1 {
		lo = 1
	}
	hi := 2 * center
	if n == 1 {
		return []float64{lo}
	}
	axis := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range axis {
		axis[i] = lo + step*float64(i)
	}
	return axis
}

// Evaluate broadcasts the forward availability formula over the axes.
// Cells with a zero denominator carry 0, matching the solver's zero-safe
// behavior; the evaluation itself adds no new semantics.
func Evaluate(mtbfAxis, mttrAxis []float64) (*Matrix, error) {
	if len(mtbfAxis) == 0 || len(mttrAxis) == 0 {
		return nil, ErrInvalidRange
	}

	df := make([][]float64, len(mttrAxis))
	for i, mttr := range mttrAxis {
		row := make([]float64, len(mtbfAxis))
		for j, mtbf := range mtbfAxis {
			sol := reliability.Availability(mtbf, mttr)
			if sol.State == reliability.StateInvalid {
				return nil, errors.New("grid: axis values must be finite and non-negative")
			}
			row[j] = sol.Value
		}
		df[i] = row
	}

	return &Matrix{
		MTBF: append([]float64(nil), mtbfAxis...),
		MTTR: append([]float64(nil), mttrAxis...),
		DF:   df,
	}, nil
}

// Boundary returns the cells lying on the target iso-contour: cells whose
// DF sits on the opposite side of the target from at least one horizontal
// or vertical neighbor (within one grid step of equality).
func (m *Matrix) Boundary(target float64) []Cell {
	var cells []Cell
	for i := range m.DF {
		for j := range m.DF[i] {
			if m.onBoundary(i, j, target) {
				cells = append(cells, Cell{Row: i, Col: j})
			}
		}
	}
	return cells
}

func (m *Matrix) onBoundary(i, j int, target float64) bool {
	here := m.DF[i][j] >= target
	neighbors := [][2]int{{i - 1, j}, {i + 1, j}, {i, j - 1}, {i, j + 1}}
	for _, n := range neighbors {
		if n[0] < 0 || n[0] >= len(m.DF) || n[1] < 0 || n[1] >= len(m.DF[n[0]]) {
			continue
		}
		if (m.DF[n[0]][n[1]] >= target) != here {
			return true
		}
	}
	return false
}
