package scoring

import "github.com/MikeSquared-Agency/Arbiter/internal/catalog"

// ParetoFrontier returns the ids of alternatives no other alternative
// dominates. a dominates b if it is at least as good on every criterion
// (respecting direction) and strictly better on at least one.
// O(n^2·k), fine for typical alternative set sizes.
func ParetoFrontier(dm *DecisionMatrix) []string {
	alts := dm.Alternatives()
	frontier := make([]string, 0, len(alts))
	for i := range alts {
		dominated := false
		for j := range alts {
			if i == j {
				continue
			}
			if dominates(dm, j, i) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, alts[i].ID)
		}
	}
	return frontier
}

// dominates returns true if row a dominates row b.
func dominates(dm *DecisionMatrix, a, b int) bool {
	strictly := false
	for j, c := range dm.Criteria() {
		va, vb := dm.At(a, j), dm.At(b, j)
		if c.Direction == catalog.Cost {
			va, vb = -va, -vb
		}
		if va < vb {
			return false
		}
		if va > vb {
			strictly = true
		}
	}
	return strictly
}
