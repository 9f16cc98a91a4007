package algo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Closeness scores every row by its relative closeness to the ideal
// solution, dNeg / (dPos + dNeg). The first row that sits at distance
// zero from both references aborts the whole run, and so does a distance
// or distance sum that is no longer finite.
func Closeness(weighted mat.Matrix, ideal, antiIdeal []float64) ([]float64, error) {
	rows, _ := weighted.Dims()
	scores := make([]float64, rows)
	for i := range rows {
		row := mat.Row(nil, i, weighted)
		dPos := floats.Distance(row, ideal, 2)
		dNeg := floats.Distance(row, antiIdeal, 2)
		total := dPos + dNeg
		if !isFinite(dPos) || !isFinite(dNeg) || !isFinite(total) {
			return nil, ErrNumericOverflow
		}
		if total == 0 {
			return nil, &Error{Kind: KindDegenerateDistance, Row: i}
		}
		scores[i] = dNeg / total
	}
	return scores, nil
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
