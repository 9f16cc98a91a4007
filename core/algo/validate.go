package algo

import (
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/topsis/schema"
)

// Validate checks the matrix, weights and impacts in a fixed order and
// stops at the first violation. On success it returns the parsed values
// in row-major order; the inputs are never modified.
func Validate(m schema.DecisionMatrix, w schema.WeightVector, impacts schema.ImpactVector) ([][]float64, error) {
	if len(m.Rows) == 0 {
		return nil, &Error{Kind: KindEmptyMatrix}
	}

	n := m.NumCriteria()
	if n < schema.MinCriteria {
		return nil, &Error{Kind: KindInsufficientCriteria, Expected: schema.MinCriteria, Actual: n}
	}
	if len(w) != n {
		return nil, &Error{Kind: KindWeightCountMismatch, Expected: n, Actual: len(w)}
	}
	if len(impacts) != n {
		return nil, &Error{Kind: KindImpactCountMismatch, Expected: n, Actual: len(impacts)}
	}
	for _, tag := range impacts {
		if _, ok := schema.ValidImpacts[tag]; !ok {
			return nil, &Error{Kind: KindInvalidImpactTag, Value: string(tag)}
		}
	}

	parsed := make([][]float64, len(m.Rows))
	for i, row := range m.Rows {
		if len(row.Values) != n {
			return nil, &Error{Kind: KindRaggedRow, Row: i, Expected: n, Actual: len(row.Values)}
		}
		parsed[i] = make([]float64, n)
		for j, cell := range row.Values {
			v, ok := parseFinite(cell)
			if !ok {
				return nil, &Error{Kind: KindNonNumericValue, Row: i, Column: j, Value: cell}
			}
			parsed[i][j] = v
		}
	}

	for j, weight := range w {
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
			return nil, &Error{Kind: KindInvalidWeight, Column: j, Value: strconv.FormatFloat(weight, 'g', -1, 64)}
		}
	}

	return parsed, nil
}

// parseFinite parses a cell as a finite real number. NaN and infinities
// are rejected even though strconv accepts their spellings.
func parseFinite(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
