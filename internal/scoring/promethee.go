package scoring

import (
	"math"
	"strings"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

// PreferenceFunction is the shape turning a value difference into a
// preference degree in [0, 1].
type PreferenceFunction string

const (
	PreferenceUsual              PreferenceFunction = "usual"
	PreferenceQuasi              PreferenceFunction = "quasi"
	PreferenceLinear             PreferenceFunction = "linear"
	PreferenceLevel              PreferenceFunction = "level"
	PreferenceLinearIndifference PreferenceFunction = "linear_indifference"
	PreferenceGaussian           PreferenceFunction = "gaussian"
)

var preferenceAliases = map[string]PreferenceFunction{
	"usual": PreferenceUsual, "t1": PreferenceUsual,
	"quasi": PreferenceQuasi, "u-shape": PreferenceQuasi, "t2": PreferenceQuasi,
	"linear": PreferenceLinear, "v-shape": PreferenceLinear, "t3": PreferenceLinear,
	"level": PreferenceLevel, "t4": PreferenceLevel,
	"linear_indifference": PreferenceLinearIndifference, "v-shape-indifference": PreferenceLinearIndifference, "t5": PreferenceLinearIndifference,
	"gaussian": PreferenceGaussian, "t6": PreferenceGaussian,
}

// ParsePreferenceFunction resolves a function name or its t1..t6 alias.
func ParsePreferenceFunction(s string) (PreferenceFunction, error) {
	if f, ok := preferenceAliases[strings.ToLower(s)]; ok {
		return f, nil
	}
	return "", newError(ErrInvalidParameter, "", "", "unknown preference function %q", s)
}

// PrometheeParams carries per-criterion weights, thresholds and functions.
// Q is the indifference threshold, P the strict preference threshold and S
// the Gaussian spread. Nil slices default to zeros (thresholds), equal
// weights and the usual function.
type PrometheeParams struct {
	Weights   []float64
	Q         []float64
	S         []float64
	P         []float64
	Functions []PreferenceFunction
}

type Flow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Net      float64 `json:"net"`
}

type PrometheeResult struct {
	Weights []float64           `json:"weights"`
	Flows   []Flow              `json:"flows"`
	Ranked  []RankedAlternative `json:"ranked"`
}

// degree evaluates f for a direction-adjusted difference d.
func (f PreferenceFunction) degree(d, q, s, p float64) float64 {
	switch f {
	case PreferenceUsual:
		if d <= 0 {
			return 0
		}
		return 1
	case PreferenceQuasi:
		if d <= q {
			return 0
		}
		return 1
	case PreferenceLinear:
		switch {
		case d <= 0:
			return 0
		case d <= p:
			return d / p
		default:
			return 1
		}
	case PreferenceLevel:
		switch {
		case d <= q:
			return 0
		case d <= p:
			return 0.5
		default:
			return 1
		}
	case PreferenceLinearIndifference:
		switch {
		case d <= q:
			return 0
		case d <= p:
			return (d - q) / (p - q)
		default:
			return 1
		}
	case PreferenceGaussian:
		if d <= 0 {
			return 0
		}
		return 1 - math.Exp(-(d*d)/(2*s*s))
	}
	return 0
}

func (p PrometheeParams) resolve(criteria []catalog.Criterion) (PrometheeParams, error) {
	k := len(criteria)
	w, err := resolveWeights(p.Weights, k, "weights")
	if err != nil {
		return p, err
	}
	out := PrometheeParams{Weights: w}
	for _, t := range []struct {
		name string
		in   []float64
		dst  *[]float64
	}{{"Q", p.Q, &out.Q}, {"S", p.S, &out.S}, {"P", p.P, &out.P}} {
		switch {
		case t.in == nil:
			*t.dst = make([]float64, k)
		case len(t.in) != k:
			return p, newError(ErrDimensionMismatch, "", "", "%s has %d entries, expected %d", t.name, len(t.in), k)
		default:
			*t.dst = t.in
		}
	}
	switch {
	case p.Functions == nil:
		out.Functions = make([]PreferenceFunction, k)
		for i := range out.Functions {
			out.Functions[i] = PreferenceUsual
		}
	case len(p.Functions) != k:
		return p, newError(ErrDimensionMismatch, "", "", "preference functions has %d entries, expected %d", len(p.Functions), k)
	default:
		out.Functions = make([]PreferenceFunction, k)
		for i, f := range p.Functions {
			parsed, err := ParsePreferenceFunction(string(f))
			if err != nil {
				return p, err
			}
			out.Functions[i] = parsed
		}
	}

	for j, c := range criteria {
		q, s, pp := out.Q[j], out.S[j], out.P[j]
		for _, v := range []float64{q, s, pp} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return p, newError(ErrInvalidParameter, c.ID, "", "thresholds must be non-negative numbers")
			}
		}
		switch out.Functions[j] {
		case PreferenceLinear:
			if pp <= 0 {
				return p, newError(ErrInvalidParameter, c.ID, "", "linear preference needs P > 0")
			}
		case PreferenceLevel, PreferenceLinearIndifference:
			if pp <= q {
				return p, newError(ErrInvalidParameter, c.ID, "", "%s preference needs P > Q", out.Functions[j])
			}
		case PreferenceGaussian:
			if s <= 0 {
				return p, newError(ErrInvalidParameter, c.ID, "", "gaussian preference needs S > 0")
			}
		}
	}
	return out, nil
}

// RankPromethee computes PROMETHEE II net flows and ranks by them.
func RankPromethee(dm *DecisionMatrix, params PrometheeParams) (*PrometheeResult, error) {
	criteria := dm.Criteria()
	p, err := params.resolve(criteria)
	if err != nil {
		return nil, err
	}

	n := dm.Rows()
	pi := make([][]float64, n)
	for i := range pi {
		pi[i] = make([]float64, n)
	}
	var wsum float64
	for _, w := range p.Weights {
		wsum += w
	}
	for k, c := range criteria {
		col := dm.Column(k)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				d := col[i] - col[j]
				if c.Direction == catalog.Cost {
					d = -d
				}
				pi[i][j] += p.Weights[k] * p.Functions[k].degree(d, p.Q[k], p.S[k], p.P[k])
			}
		}
	}

	alts := dm.Alternatives()
	flows := make([]Flow, n)
	net := make([]float64, n)
	for i := 0; i < n; i++ {
		var plus, minus float64
		for j := 0; j < n; j++ {
			plus += pi[i][j] / wsum
			minus += pi[j][i] / wsum
		}
		plus /= float64(n - 1)
		minus /= float64(n - 1)
		flows[i] = Flow{ID: alts[i].ID, Name: alts[i].Label(), Positive: plus, Negative: minus, Net: plus - minus}
		net[i] = plus - minus
	}

	return &PrometheeResult{
		Weights: p.Weights,
		Flows:   flows,
		Ranked:  rankScores(alts, net),
	}, nil
}
