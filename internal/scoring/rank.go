package scoring

import "sort"

// RankedAlternative is one row of a ranking.
type RankedAlternative struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// rankScores orders alternatives by descending score. Ties keep input order
// and still receive consecutive ranks.
func rankScores(alts []Alternative, scores []float64) []RankedAlternative {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	out := make([]RankedAlternative, len(idx))
	for pos, i := range idx {
		out[pos] = RankedAlternative{
			ID:    alts[i].ID,
			Name:  alts[i].Label(),
			Score: scores[i],
			Rank:  pos + 1,
		}
	}
	return out
}
