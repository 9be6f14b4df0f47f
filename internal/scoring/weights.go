package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WeightSet is an ordered weight vector, one entry per criterion (or per
// alternative, depending on the stage that produced it).
type WeightSet []float64

// EqualWeights returns n weights of 1/n.
func EqualWeights(n int) WeightSet {
	w := make(WeightSet, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return floats.Sum(w)
}

// Validate checks that w has exactly n entries, all finite and non-negative,
// and that at least one is positive. label names the vector in errors.
func (w WeightSet) Validate(n int, label string) error {
	if len(w) != n {
		return newError(ErrDimensionMismatch, "", "", "%s has %d entries, expected %d", label, len(w), n)
	}
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return newError(ErrInvalidParameter, "", "", "%s[%d] = %v, must be a non-negative number", label, i, v)
		}
	}
	if w.Sum() == 0 {
		return newError(ErrInvalidParameter, "", "", "%s must contain at least one positive weight", label)
	}
	return nil
}

// Normalized returns a copy of w scaled to sum to 1.
func (w WeightSet) Normalized() WeightSet {
	out := make(WeightSet, len(w))
	copy(out, w)
	if s := w.Sum(); s != 0 {
		floats.Scale(1/s, out)
	}
	return out
}

// resolveWeights defaults nil weights to equal weights and validates and
// normalises supplied ones.
func resolveWeights(w []float64, n int, label string) (WeightSet, error) {
	if w == nil {
		return EqualWeights(n), nil
	}
	ws := WeightSet(w)
	if err := ws.Validate(n, label); err != nil {
		return nil, err
	}
	return ws.Normalized(), nil
}
