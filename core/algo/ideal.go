package algo

import (
	"github.com/huangsam/topsis/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IdealSolutions returns the best and worst attainable value of each
// weighted column. Benefit columns prefer the maximum and cost columns
// the minimum.
func IdealSolutions(weighted mat.Matrix, impacts schema.ImpactVector) (ideal, antiIdeal []float64) {
	_, cols := weighted.Dims()
	ideal = make([]float64, cols)
	antiIdeal = make([]float64, cols)
	for j := range cols {
		col := mat.Col(nil, j, weighted)
		hi, lo := floats.Max(col), floats.Min(col)
		if impacts[j] == schema.Cost {
			ideal[j], antiIdeal[j] = lo, hi
		} else {
			ideal[j], antiIdeal[j] = hi, lo
		}
	}
	return ideal, antiIdeal
}
