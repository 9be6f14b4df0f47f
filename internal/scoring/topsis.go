package scoring

import (
	"gonum.org/v1/gonum/floats"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

type TOPSISResult struct {
	Weights    WeightSet           `json:"weights"`
	Directions []catalog.Direction `json:"directions"`
	Ideal      []float64           `json:"ideal"`
	AntiIdeal  []float64           `json:"anti_ideal"`
	Ranked     []RankedAlternative `json:"ranked"`
}

// RankTOPSIS ranks alternatives by relative closeness d-/(d+ + d-) to the
// ideal point of the weighted, vector-normalised matrix. Nil weights are equal.
func RankTOPSIS(dm *DecisionMatrix, weights []float64) (*TOPSISResult, error) {
	w, err := resolveWeights(weights, dm.Cols(), "weights")
	if err != nil {
		return nil, err
	}

	rows, cols := dm.Rows(), dm.Cols()
	weighted := make([][]float64, rows)
	for i := range weighted {
		weighted[i] = make([]float64, cols)
	}
	for j := 0; j < cols; j++ {
		col := dm.Column(j)
		norm := floats.Norm(col, 2)
		for i := 0; i < rows; i++ {
			// A zero-norm column carries no information and normalises to 0.
			if norm == 0 {
				continue
			}
			weighted[i][j] = col[i] / norm * w[j]
		}
	}

	directions := dm.Directions()
	ideal := make([]float64, cols)
	anti := make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := make([]float64, rows)
		for i := range weighted {
			col[i] = weighted[i][j]
		}
		hi, lo := floats.Max(col), floats.Min(col)
		if directions[j] == catalog.Cost {
			hi, lo = lo, hi
		}
		ideal[j], anti[j] = hi, lo
	}

	scores := make([]float64, rows)
	for i := range weighted {
		dPlus := floats.Distance(weighted[i], ideal, 2)
		dMinus := floats.Distance(weighted[i], anti, 2)
		if total := dPlus + dMinus; total > 0 {
			scores[i] = dMinus / total
		}
	}

	return &TOPSISResult{
		Weights:    w,
		Directions: directions,
		Ideal:      ideal,
		AntiIdeal:  anti,
		Ranked:     rankScores(dm.Alternatives(), scores),
	}, nil
}
