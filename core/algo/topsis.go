// Package algo implements the TOPSIS ranking pipeline.
//
// Each stage is a pure function over freshly allocated values:
// Validate, Normalize, ApplyWeights, IdealSolutions, Closeness and
// CompetitionRanks. Rank runs them in that order.
package algo

import (
	"github.com/huangsam/topsis/schema"
)

// Rank scores and orders the alternatives of m. The result lists the best
// alternative first.
func Rank(m schema.DecisionMatrix, w schema.WeightVector, impacts schema.ImpactVector) (schema.RankedResult, error) {
	values, err := Validate(m, w, impacts)
	if err != nil {
		return schema.RankedResult{}, err
	}

	normalized, err := Normalize(values)
	if err != nil {
		return schema.RankedResult{}, err
	}
	weighted := ApplyWeights(normalized, w)
	ideal, antiIdeal := IdealSolutions(weighted, impacts)

	scores, err := Closeness(weighted, ideal, antiIdeal)
	if err != nil {
		return schema.RankedResult{}, err
	}

	order, ranks := CompetitionRanks(scores)
	result := schema.RankedResult{
		LabelHeader: m.LabelHeader,
		Criteria:    m.CriteriaNames(),
		Rows:        make([]schema.RankedAlternative, len(order)),
	}
	for k, idx := range order {
		result.Rows[k] = schema.RankedAlternative{
			Label:  m.Rows[idx].Label,
			Values: values[idx],
			Score:  scores[idx],
			Rank:   ranks[k],
		}
	}
	return result, nil
}
