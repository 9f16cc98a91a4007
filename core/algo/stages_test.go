package algo

import (
	"math"
	"testing"

	"github.com/huangsam/topsis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func phoneValues() [][]float64 {
	return [][]float64{
		{250, 16, 12},
		{200, 16, 8},
		{300, 32, 16},
		{275, 32, 8},
		{225, 16, 16},
	}
}

func TestNormalize(t *testing.T) {
	values := phoneValues()
	normalized, err := Normalize(values)
	require.NoError(t, err)

	norms := []float64{564.5794895318107, 53.0659966456864, 28.0}
	rows, cols := normalized.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)
	for i := range rows {
		for j := range cols {
			assert.InDelta(t, values[i][j]/norms[j], normalized.At(i, j), 1e-12)
		}
	}

	// Every normalized column has unit length.
	for j := range cols {
		assert.InDelta(t, 1.0, floats.Norm(mat.Col(nil, j, normalized), 2), 1e-12)
	}

	// Input is untouched.
	assert.Equal(t, phoneValues(), values)
}

func TestNormalizeOverflow(t *testing.T) {
	_, err := Normalize([][]float64{
		{math.MaxFloat64, 1, 1},
		{math.MaxFloat64, 1, 1},
	})
	assert.ErrorIs(t, err, ErrNumericOverflow)
	assert.False(t, IsInputError(err))
}

func TestApplyWeights(t *testing.T) {
	normalized := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	weighted := ApplyWeights(normalized, schema.WeightVector{0.5, 1, 2})

	assert.Equal(t, []float64{0.5, 2, 6}, mat.Row(nil, 0, weighted))
	assert.Equal(t, []float64{2, 5, 12}, mat.Row(nil, 1, weighted))
	assert.Equal(t, 1.0, normalized.At(0, 0), "input must not change")
}

func TestIdealSolutions(t *testing.T) {
	normalized, err := Normalize(phoneValues())
	require.NoError(t, err)
	weighted := ApplyWeights(normalized, phoneWeights)

	ideal, antiIdeal := IdealSolutions(weighted, phoneImpacts)
	expIdeal := []float64{0.08856148855400953, 0.15075567228888181, 0.2857142857142857}
	expAnti := []float64{0.1328422328310143, 0.07537783614444091, 0.14285714285714285}
	for j := range expIdeal {
		assert.InDelta(t, expIdeal[j], ideal[j], 1e-12)
		assert.InDelta(t, expAnti[j], antiIdeal[j], 1e-12)
	}
}

func TestCloseness(t *testing.T) {
	weighted := mat.NewDense(3, 3, []float64{
		1, 1, 1,
		0, 0, 0,
		0.5, 0.5, 0.5,
	})
	scores, err := Closeness(weighted, []float64{1, 1, 1}, []float64{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0.5}, scores)
}

func TestClosenessOverflow(t *testing.T) {
	weighted := mat.NewDense(3, 3, []float64{
		1e308, 0, 0,
		0, 1e308, 0,
		0, 0, 1e308,
	})
	scores, err := Closeness(weighted, []float64{1e308, 1e308, 1e308}, []float64{0, 0, 0})
	assert.Nil(t, scores)
	assert.ErrorIs(t, err, ErrNumericOverflow)
	assert.False(t, IsInputError(err))
}

func TestCompetitionRanks(t *testing.T) {
	tests := []struct {
		name          string
		scores        []float64
		expectedOrder []int
		expectedRanks []int
	}{
		{"empty", []float64{}, []int{}, []int{}},
		{"single", []float64{0.3}, []int{0}, []int{1}},
		{"distinct", []float64{0.2, 0.9, 0.5}, []int{1, 2, 0}, []int{1, 2, 3}},
		{"middle tie", []float64{0.9, 0.5, 0.5, 0.1}, []int{0, 1, 2, 3}, []int{1, 3, 3, 4}},
		{"top tie", []float64{0.7, 0.7, 0.2}, []int{0, 1, 2}, []int{2, 2, 3}},
		{"all tied", []float64{0.4, 0.4, 0.4}, []int{0, 1, 2}, []int{3, 3, 3}},
		{"stable tie order", []float64{0.1, 0.8, 0.1, 0.8}, []int{1, 3, 0, 2}, []int{2, 2, 4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, ranks := CompetitionRanks(tt.scores)
			assert.Equal(t, tt.expectedOrder, order)
			assert.Equal(t, tt.expectedRanks, ranks)
		})
	}
}
