package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

// DefaultLambda balances WSM and WPM equally.
const DefaultLambda = 0.5

type WASPASResult struct {
	Lambda  float64             `json:"lambda"`
	Weights WeightSet           `json:"weights"`
	WSM     []RankedAlternative `json:"wsm"`
	WPM     []RankedAlternative `json:"wpm"`
	WASPAS  []RankedAlternative `json:"waspas"`
}

// SingleModelResult is the output of a standalone WSM or WPM run.
type SingleModelResult struct {
	Weights WeightSet           `json:"weights"`
	Ranked  []RankedAlternative `json:"ranked"`
}

// NormalizeLinear scales each column to its best value: x/max for benefit
// criteria and min/x for cost criteria. Both ratios invert the order of
// negative values, so any negative input is rejected.
func NormalizeLinear(dm *DecisionMatrix) ([][]float64, error) {
	rows, cols := dm.Rows(), dm.Cols()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	alts := dm.Alternatives()
	for j, c := range dm.Criteria() {
		col := dm.Column(j)
		for i, v := range col {
			if v < 0 {
				return nil, newError(ErrInvalidParameter, c.ID, alts[i].Label(),
					"negative value %v cannot be linearly normalised", v)
			}
		}
		if c.Direction == catalog.Cost {
			lo := floats.Min(col)
			for i, v := range col {
				if v == 0 {
					return nil, newError(ErrInvalidParameter, c.ID, alts[i].Label(), "zero value cannot be normalised for a cost criterion")
				}
				out[i][j] = lo / v
			}
			continue
		}
		hi := floats.Max(col)
		if hi == 0 {
			return nil, newError(ErrInvalidParameter, c.ID, "", "column maximum is zero, cannot normalise")
		}
		for i, v := range col {
			out[i][j] = v / hi
		}
	}
	return out, nil
}

func wsmScores(norm [][]float64, w WeightSet) []float64 {
	scores := make([]float64, len(norm))
	for i, row := range norm {
		scores[i] = floats.Dot(row, w)
	}
	return scores
}

// wpmScores requires every normalised value to be strictly positive.
func wpmScores(dm *DecisionMatrix, norm [][]float64, w WeightSet) ([]float64, error) {
	alts := dm.Alternatives()
	criteria := dm.Criteria()
	scores := make([]float64, len(norm))
	for i, row := range norm {
		s := 1.0
		for j, v := range row {
			if v <= 0 {
				return nil, newError(ErrInvalidParameter, criteria[j].ID, alts[i].Label(),
					"normalised value %v is not positive, the weighted product model needs strictly positive inputs", v)
			}
			s *= math.Pow(v, w[j])
		}
		scores[i] = s
	}
	return scores, nil
}

// RankWSM ranks by the weighted sum of linearly normalised values.
func RankWSM(dm *DecisionMatrix, weights []float64) (*SingleModelResult, error) {
	w, err := resolveWeights(weights, dm.Cols(), "weights")
	if err != nil {
		return nil, err
	}
	norm, err := NormalizeLinear(dm)
	if err != nil {
		return nil, err
	}
	return &SingleModelResult{Weights: w, Ranked: rankScores(dm.Alternatives(), wsmScores(norm, w))}, nil
}

// RankWPM ranks by the weighted product of linearly normalised values.
func RankWPM(dm *DecisionMatrix, weights []float64) (*SingleModelResult, error) {
	w, err := resolveWeights(weights, dm.Cols(), "weights")
	if err != nil {
		return nil, err
	}
	norm, err := NormalizeLinear(dm)
	if err != nil {
		return nil, err
	}
	scores, err := wpmScores(dm, norm, w)
	if err != nil {
		return nil, err
	}
	return &SingleModelResult{Weights: w, Ranked: rankScores(dm.Alternatives(), scores)}, nil
}

// RankWASPAS blends lambda*WSM + (1-lambda)*WPM and also returns the two
// component rankings.
func RankWASPAS(dm *DecisionMatrix, weights []float64, lambda float64) (*WASPASResult, error) {
	if math.IsNaN(lambda) || lambda < 0 || lambda > 1 {
		return nil, newError(ErrInvalidParameter, "", "", "lambda %v outside [0, 1]", lambda)
	}
	w, err := resolveWeights(weights, dm.Cols(), "weights")
	if err != nil {
		return nil, err
	}
	norm, err := NormalizeLinear(dm)
	if err != nil {
		return nil, err
	}
	wsm := wsmScores(norm, w)
	wpm, err := wpmScores(dm, norm, w)
	if err != nil {
		return nil, err
	}
	blend := make([]float64, len(wsm))
	for i := range blend {
		blend[i] = lambda*wsm[i] + (1-lambda)*wpm[i]
	}

	alts := dm.Alternatives()
	return &WASPASResult{
		Lambda:  lambda,
		Weights: w,
		WSM:     rankScores(alts, wsm),
		WPM:     rankScores(alts, wpm),
		WASPAS:  rankScores(alts, blend),
	}, nil
}
