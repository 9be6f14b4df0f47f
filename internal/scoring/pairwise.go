package scoring

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

const reciprocityTolerance = 1e-9

// PairwiseMatrix is a square reciprocal judgment matrix: M[i][i] = 1 and
// M[i][j] * M[j][i] = 1.
type PairwiseMatrix [][]float64

func (m PairwiseMatrix) Order() int { return len(m) }

// Validate checks squareness, a unit diagonal, strictly positive entries and
// reciprocal symmetry.
func (m PairwiseMatrix) Validate() error {
	n := len(m)
	if n == 0 {
		return newError(ErrDimensionMismatch, "", "", "pairwise matrix is empty")
	}
	for i := range m {
		if len(m[i]) != n {
			return newError(ErrDimensionMismatch, "", "", "pairwise matrix row %d has %d entries, expected %d", i, len(m[i]), n)
		}
	}
	for i := 0; i < n; i++ {
		if m[i][i] != 1 {
			return newError(ErrInvalidParameter, "", "", "diagonal entry [%d][%d] = %v, must be 1", i, i, m[i][i])
		}
		for j := 0; j < n; j++ {
			v := m[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return newError(ErrInvalidParameter, "", "", "entry [%d][%d] = %v, must be positive", i, j, v)
			}
			if j > i && math.Abs(v*m[j][i]-1) > reciprocityTolerance {
				return newError(ErrInvalidParameter, "", "", "entries [%d][%d] and [%d][%d] are not reciprocal", i, j, j, i)
			}
		}
	}
	return nil
}

// Dense copies m into a gonum matrix.
func (m PairwiseMatrix) Dense() *mat.Dense {
	n := len(m)
	d := mat.NewDense(n, n, nil)
	for i := range m {
		d.SetRow(i, m[i])
	}
	return d
}

// Synthesize builds the judgment matrix for one criterion from its raw values.
// Pairs involving an exact zero are judged equal. Otherwise the relative
// difference |vi-vj| / max(|vi|,|vj|) is mapped through fn and the better
// alternative (larger for benefit, smaller for cost) receives the intensity.
// Values of opposite sign give a ratio of 1 or more, which maps to 9.
func Synthesize(values []float64, dir catalog.Direction, fn IntensityFunc) PairwiseMatrix {
	if fn == nil {
		fn = ThresholdIntensity
	}
	n := len(values)
	m := make(PairwiseMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			vi, vj := values[i], values[j]
			intensity := 1
			if vi != 0 && vj != 0 {
				ratio := math.Abs(vi-vj) / math.Max(math.Abs(vi), math.Abs(vj))
				intensity = fn(ratio)
			}

			better := compare(vi, vj, dir)
			switch {
			case intensity == 1 || better == 0:
				m[i][j], m[j][i] = 1, 1
			case better > 0:
				m[i][j], m[j][i] = float64(intensity), 1/float64(intensity)
			default:
				m[i][j], m[j][i] = 1/float64(intensity), float64(intensity)
			}
		}
	}
	return m
}

// compare returns 1 when a beats b under dir, -1 when b beats a, 0 on a tie.
func compare(a, b float64, dir catalog.Direction) int {
	if a == b {
		return 0
	}
	better := a > b
	if dir == catalog.Cost {
		better = !better
	}
	if better {
		return 1
	}
	return -1
}

// ZeroValued returns the indexes of exact zeros, whose comparisons
// Synthesize forces to "equal".
func ZeroValued(values []float64) []int {
	var out []int
	for i, v := range values {
		if v == 0 {
			out = append(out, i)
		}
	}
	return out
}
