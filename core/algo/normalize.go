package algo

import (
	"math"

	"github.com/huangsam/topsis/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// toDense copies validated rows into a freshly allocated matrix.
func toDense(values [][]float64) *mat.Dense {
	rows, cols := len(values), len(values[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range values {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

// Normalize divides every column by its Euclidean norm so that columns
// measured in different units become comparable.
func Normalize(values [][]float64) (*mat.Dense, error) {
	raw := toDense(values)
	_, cols := raw.Dims()

	norms := make([]float64, cols)
	for j := range cols {
		norm := floats.Norm(mat.Col(nil, j, raw), 2)
		if norm == 0 {
			return nil, &Error{Kind: KindZeroVarianceColumn, Column: j}
		}
		if math.IsInf(norm, 0) || math.IsNaN(norm) {
			return nil, ErrNumericOverflow
		}
		norms[j] = norm
	}

	var normalized mat.Dense
	normalized.Apply(func(_, j int, v float64) float64 {
		return v / norms[j]
	}, raw)
	return &normalized, nil
}

// ApplyWeights scales each normalized column by its weight.
func ApplyWeights(normalized mat.Matrix, w schema.WeightVector) *mat.Dense {
	var weighted mat.Dense
	weighted.Apply(func(_, j int, v float64) float64 {
		return v * w[j]
	}, normalized)
	return &weighted
}
