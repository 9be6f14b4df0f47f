package scoring

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

// WeightMethod selects how a weight vector is derived from a pairwise matrix.
type WeightMethod string

const (
	WeightMean      WeightMethod = "mean"
	WeightGeometric WeightMethod = "geometric"
	WeightEigen     WeightMethod = "eigen"
)

// ParseWeightMethod accepts the canonical names plus the short and legacy
// aliases (m, g, me, max_eigen). Empty means geometric.
func ParseWeightMethod(s string) (WeightMethod, error) {
	switch strings.ToLower(s) {
	case "", "geometric", "g":
		return WeightGeometric, nil
	case "mean", "m":
		return WeightMean, nil
	case "eigen", "max_eigen", "me":
		return WeightEigen, nil
	default:
		return "", newError(ErrInvalidParameter, "", "", "unknown weight derivation method %q", s)
	}
}

// ConsistencyPolicy decides what happens when a consistency ratio exceeds the threshold.
type ConsistencyPolicy string

const (
	// ConsistencyStrict fails the analysis with ErrInconsistentJudgment.
	ConsistencyStrict ConsistencyPolicy = "strict"
	// ConsistencyWarn keeps the result and records a warning.
	ConsistencyWarn ConsistencyPolicy = "warn"
)

func ParseConsistencyPolicy(s string) (ConsistencyPolicy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return ConsistencyStrict, nil
	case "warn":
		return ConsistencyWarn, nil
	default:
		return "", newError(ErrInvalidParameter, "", "", "unknown consistency policy %q", s)
	}
}

// DefaultConsistencyThreshold is the conventional AHP reliability cut-off.
const DefaultConsistencyThreshold = 0.1

// Power iteration bounds, used when the eigendecomposition does not converge.
const (
	eigenTolerance     = 1e-12
	eigenMaxIterations = 1000
)

// Random consistency indices indexed by matrix order.
var randomIndex = []float64{0, 0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49, 1.51, 1.48, 1.56, 1.57, 1.59}

// RandomIndex returns the random consistency index for order n. Orders past
// the table use its last entry.
func RandomIndex(n int) float64 {
	if n < 0 {
		return 0
	}
	if n >= len(randomIndex) {
		return randomIndex[len(randomIndex)-1]
	}
	return randomIndex[n]
}

// DeriveWeights computes the priority vector of m (summing to 1) and its
// consistency ratio.
func DeriveWeights(m PairwiseMatrix, method WeightMethod) (WeightSet, float64, error) {
	if err := m.Validate(); err != nil {
		return nil, 0, err
	}
	n := m.Order()
	if n == 1 {
		return WeightSet{1}, 0, nil
	}

	var (
		w      WeightSet
		lambda float64
	)
	switch method {
	case WeightMean:
		w = meanWeights(m)
		lambda = lambdaMax(m, w)
	case WeightGeometric, "":
		w = geometricWeights(m)
		lambda = lambdaMax(m, w)
	case WeightEigen:
		w, lambda = principalEigen(m)
	default:
		return nil, 0, newError(ErrInvalidParameter, "", "", "unknown weight derivation method %q", method)
	}

	return w, consistencyRatio(lambda, n), nil
}

func meanWeights(m PairwiseMatrix) WeightSet {
	n := m.Order()
	colSum := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			colSum[j] += m[i][j]
		}
	}
	w := make(WeightSet, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w[i] += m[i][j] / colSum[j]
		}
		w[i] /= float64(n)
	}
	return w
}

func geometricWeights(m PairwiseMatrix) WeightSet {
	n := m.Order()
	w := make(WeightSet, n)
	for i := 0; i < n; i++ {
		var logSum float64
		for j := 0; j < n; j++ {
			logSum += math.Log(m[i][j])
		}
		w[i] = math.Exp(logSum / float64(n))
	}
	return w.Normalized()
}

// lambdaMax estimates the principal eigenvalue as mean((M·w)_i / w_i).
func lambdaMax(m PairwiseMatrix, w WeightSet) float64 {
	n := m.Order()
	var mw mat.VecDense
	mw.MulVec(m.Dense(), mat.NewVecDense(n, []float64(w)))
	var sum float64
	for i := 0; i < n; i++ {
		sum += mw.AtVec(i) / w[i]
	}
	return sum / float64(n)
}

// principalEigen returns the normalised Perron vector of m and its eigenvalue.
func principalEigen(m PairwiseMatrix) (WeightSet, float64) {
	n := m.Order()
	var eig mat.Eigen
	if eig.Factorize(m.Dense(), mat.EigenRight) {
		vals := eig.Values(nil)
		k := 0
		for i := range vals {
			if real(vals[i]) > real(vals[k]) {
				k = i
			}
		}
		var vecs mat.CDense
		eig.VectorsTo(&vecs)
		w := make(WeightSet, n)
		for i := range w {
			w[i] = real(vecs.At(i, k))
		}
		if s := w.Sum(); s != 0 {
			w = w.Normalized()
			if floats.Min(w) > 0 {
				return w, real(vals[k])
			}
		}
	}
	return powerIteration(m)
}

func powerIteration(m PairwiseMatrix) (WeightSet, float64) {
	n := m.Order()
	a := m.Dense()
	w := EqualWeights(n)
	var next mat.VecDense
	for iter := 0; iter < eigenMaxIterations; iter++ {
		next.MulVec(a, mat.NewVecDense(n, []float64(w)))
		candidate := WeightSet(mat.Col(nil, 0, &next)).Normalized()
		delta := floats.Distance(candidate, w, math.Inf(1))
		w = candidate
		if delta < eigenTolerance {
			break
		}
	}
	return w, lambdaMax(m, w)
}

func consistencyRatio(lambda float64, n int) float64 {
	if n <= 2 {
		return 0
	}
	ci := (lambda - float64(n)) / float64(n-1)
	cr := ci / RandomIndex(n)
	if cr < 0 || math.IsNaN(cr) {
		return 0
	}
	return cr
}

// AHPOptions configures RankAHP. Zero values select geometric weights,
// threshold intensities, equal criterion importance and the strict policy.
type AHPOptions struct {
	WeightMethod       WeightMethod
	Intensity          IntensityFunc
	CriteriaImportance []float64
	Policy             ConsistencyPolicy
	Threshold          float64
	Explain            bool
}

// CriterionWeights holds the alternative weights derived under one criterion.
type CriterionWeights struct {
	Criterion        string         `json:"criterion"`
	CriterionID      string         `json:"criterion_id"`
	Weights          WeightSet      `json:"weights"`
	ConsistencyRatio float64        `json:"consistency_ratio"`
	Matrix           PairwiseMatrix `json:"matrix,omitempty"`
	Comparisons      []string       `json:"comparisons,omitempty"`
}

type AHPResult struct {
	WeightMethod             WeightMethod        `json:"weight_method"`
	CriteriaWeights          WeightSet           `json:"criteria_weights"`
	CriteriaConsistencyRatio float64             `json:"criteria_consistency_ratio"`
	AlternativeWeights       []CriterionWeights  `json:"alternative_weights"`
	Ranked                   []RankedAlternative `json:"ranked"`
	Warnings                 []string            `json:"warnings,omitempty"`
}

// criteriaLevel names the criteria-level matrix in consistency errors.
const criteriaLevel = "criteria"

// RankAHP synthesises a pairwise matrix per criterion, derives alternative
// and criterion weights and aggregates them into a ranking.
func RankAHP(dm *DecisionMatrix, opts AHPOptions) (*AHPResult, error) {
	if opts.WeightMethod == "" {
		opts.WeightMethod = WeightGeometric
	}
	if opts.Intensity == nil {
		opts.Intensity = ThresholdIntensity
	}
	if opts.Policy == "" {
		opts.Policy = ConsistencyStrict
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultConsistencyThreshold
	}

	criteria := dm.Criteria()
	names := dm.Names()
	result := &AHPResult{WeightMethod: opts.WeightMethod}

	for j, c := range criteria {
		col := dm.Column(j)
		pm := Synthesize(col, c.Direction, opts.Intensity)
		w, cr, err := DeriveWeights(pm, opts.WeightMethod)
		if err != nil {
			return nil, err
		}
		if err := opts.checkConsistency(cr, c.ID, &result.Warnings); err != nil {
			return nil, err
		}
		for _, i := range ZeroValued(col) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("criterion %s: %s has a zero value, its comparisons were judged equal", c.ID, names[i]))
		}

		cw := CriterionWeights{
			Criterion:        c.DisplayName(),
			CriterionID:      c.ID,
			Weights:          w,
			ConsistencyRatio: cr,
		}
		if opts.Explain {
			cw.Matrix = pm
			cw.Comparisons = DescribeComparisons(pm, names)
		}
		result.AlternativeWeights = append(result.AlternativeWeights, cw)
	}

	importance := opts.CriteriaImportance
	if importance == nil {
		importance = make([]float64, len(criteria))
		for i := range importance {
			importance[i] = 1
		}
	} else {
		if err := WeightSet(importance).Validate(len(criteria), "criteria importance"); err != nil {
			return nil, err
		}
		// A zero would be judged equal to everything by Synthesize.
		for j, v := range importance {
			if v <= 0 {
				return nil, newError(ErrInvalidParameter, criteria[j].ID, "",
					"criteria importance must be positive, got %v", v)
			}
		}
	}
	cm := Synthesize(importance, catalog.Benefit, opts.Intensity)
	cw, ccr, err := DeriveWeights(cm, opts.WeightMethod)
	if err != nil {
		return nil, err
	}
	if err := opts.checkConsistency(ccr, criteriaLevel, &result.Warnings); err != nil {
		return nil, err
	}
	result.CriteriaWeights = cw
	result.CriteriaConsistencyRatio = ccr

	scores := make([]float64, dm.Rows())
	for k, alt := range result.AlternativeWeights {
		for i, w := range alt.Weights {
			scores[i] += w * cw[k]
		}
	}
	result.Ranked = rankScores(dm.Alternatives(), scores)
	return result, nil
}

func (o AHPOptions) checkConsistency(cr float64, criterion string, warnings *[]string) error {
	if cr <= o.Threshold {
		return nil
	}
	if o.Policy == ConsistencyWarn {
		*warnings = append(*warnings,
			fmt.Sprintf("criterion %s: consistency ratio %.4f exceeds %.2f", criterion, cr, o.Threshold))
		return nil
	}
	return newError(ErrInconsistentJudgment, criterion, "",
		"consistency ratio %.4f exceeds %.2f, review the input", cr, o.Threshold)
}
