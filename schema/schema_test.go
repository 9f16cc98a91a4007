package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDecisionMatrix(t *testing.T) {
	m := NewDecisionMatrix([]string{"A", "B"}, [][]float64{{250, 16, 12.5}, {200, 16, 8}, {1, 2, 3}})

	assert.Len(t, m.Rows, 3)
	assert.Equal(t, "A", m.Rows[0].Label)
	assert.Equal(t, "B", m.Rows[1].Label)
	assert.Equal(t, "A3", m.Rows[2].Label)
	assert.Equal(t, []string{"250", "16", "12.5"}, m.Rows[0].Values)
	assert.Equal(t, []string{"C1", "C2", "C3"}, m.Criteria)
	assert.Equal(t, 3, m.NumCriteria())
}

func TestNumCriteria(t *testing.T) {
	tests := []struct {
		name     string
		matrix   DecisionMatrix
		expected int
	}{
		{"empty", DecisionMatrix{}, 0},
		{"header wins", DecisionMatrix{Criteria: []string{"a", "b", "c", "d"}, Rows: []Alternative{{Label: "x", Values: []string{"1"}}}}, 4},
		{"first row without header", DecisionMatrix{Rows: []Alternative{{Label: "x", Values: []string{"1", "2"}}}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.matrix.NumCriteria())
		})
	}
}

func TestCriteriaNames(t *testing.T) {
	m := DecisionMatrix{Criteria: []string{"price", "storage"}}
	names := m.CriteriaNames()
	names[0] = "changed"
	assert.Equal(t, "price", m.Criteria[0], "CriteriaNames must return a copy")

	noHeader := DecisionMatrix{Rows: []Alternative{{Label: "x", Values: []string{"1", "2", "3"}}}}
	assert.Equal(t, []string{"C1", "C2", "C3"}, noHeader.CriteriaNames())
}

func TestImpactVectorStrings(t *testing.T) {
	assert.Equal(t, []string{"+", "-", "x"}, ImpactVector{Benefit, Cost, "x"}.Strings())
}
