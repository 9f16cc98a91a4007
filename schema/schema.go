// Package schema has models and constants for all parts of topsis.
package schema

import (
	"fmt"
	"strconv"
)

// Alternative is one row of a decision matrix as it was read from input.
// Values hold the raw cell text so that numeric validation stays with the ranker.
type Alternative struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// DecisionMatrix is the tabular input to a ranking run.
type DecisionMatrix struct {
	LabelHeader string        `json:"label_header,omitempty"` // Header of the label column, if any
	Criteria    []string      `json:"criteria,omitempty"`     // Criterion names in column order
	Rows        []Alternative `json:"rows"`
}

// WeightVector holds the relative importance of each criterion.
type WeightVector []float64

// ImpactVector holds the direction of each criterion.
type ImpactVector []Impact

// RankedAlternative is an alternative after scoring.
type RankedAlternative struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Score  float64   `json:"score"` // Relative closeness to the ideal solution in [0,1]
	Rank   int       `json:"rank"`  // 1-based; tied alternatives share the last position of their group
}

// RankedResult is the ordered output of a ranking run, best alternative first.
type RankedResult struct {
	LabelHeader string              `json:"label_header"`
	Criteria    []string            `json:"criteria"`
	Rows        []RankedAlternative `json:"rows"`
}

// NewDecisionMatrix builds a matrix from already numeric rows.
// Criterion names default to C1..Cn.
func NewDecisionMatrix(labels []string, values [][]float64) DecisionMatrix {
	m := DecisionMatrix{Rows: make([]Alternative, len(values))}
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		label := fmt.Sprintf("A%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		m.Rows[i] = Alternative{Label: label, Values: cells}
	}
	if len(values) > 0 {
		m.Criteria = DefaultCriteriaNames(len(values[0]))
	}
	return m
}

// NumCriteria returns the number of criterion columns. The header wins
// when present, otherwise the width of the first row is used.
func (m DecisionMatrix) NumCriteria() int {
	if len(m.Criteria) > 0 {
		return len(m.Criteria)
	}
	if len(m.Rows) > 0 {
		return len(m.Rows[0].Values)
	}
	return 0
}

// CriteriaNames returns the header names, generating C1..Cn when the header is missing.
func (m DecisionMatrix) CriteriaNames() []string {
	if len(m.Criteria) > 0 {
		out := make([]string, len(m.Criteria))
		copy(out, m.Criteria)
		return out
	}
	return DefaultCriteriaNames(m.NumCriteria())
}

// DefaultCriteriaNames returns C1..Cn.
func DefaultCriteriaNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("C%d", i+1)
	}
	return names
}

// Strings returns the impacts as plain strings.
func (iv ImpactVector) Strings() []string {
	out := make([]string, len(iv))
	for i, v := range iv {
		out[i] = string(v)
	}
	return out
}
