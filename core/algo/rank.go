package algo

import (
	"cmp"
	"slices"
)

// CompetitionRanks orders scores from best to worst and assigns ranks.
// order[k] is the index of the alternative at position k and ranks[k] is
// its rank. The sort is stable, so tied alternatives keep input order,
// and every member of a tied group gets the last 1-based position of the
// group ("1 3 3 4").
func CompetitionRanks(scores []float64) (order []int, ranks []int) {
	order = make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	ranks = make([]int, len(scores))
	for start := 0; start < len(order); {
		end := start
		for end+1 < len(order) && scores[order[end+1]] == scores[order[start]] {
			end++
		}
		for k := start; k <= end; k++ {
			ranks[k] = end + 1
		}
		start = end + 1
	}
	return order, ranks
}
