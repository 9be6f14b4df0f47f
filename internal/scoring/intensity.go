package scoring

import (
	"fmt"
	"math"
	"strings"
)

// IntensityFunc maps a relative difference ratio onto a Saaty intensity in
// {1, 3, 5, 7, 9}. It stands in for a human judge when matrices are
// synthesised from data.
type IntensityFunc func(ratio float64) int

// Intensity strategy names.
const (
	IntensityThreshold = "threshold"
	IntensityLogistic  = "logistic"
)

// ThresholdIntensity buckets the ratio with fixed cut points.
func ThresholdIntensity(ratio float64) int {
	switch {
	case ratio <= 0.10:
		return 1
	case ratio <= 0.25:
		return 3
	case ratio <= 0.45:
		return 5
	case ratio <= 0.75:
		return 7
	default:
		return 9
	}
}

// LogisticIntensity squashes the ratio through 9/(1+e^(-10(r-0.5))), clips to
// [1, 9] and snaps even results up to the next odd intensity.
func LogisticIntensity(ratio float64) int {
	v := math.Round(9 / (1 + math.Exp(-10*(ratio-0.5))))
	n := int(math.Min(9, math.Max(1, v)))
	if n%2 == 0 {
		n++
	}
	return n
}

// IntensityByName resolves a strategy name. Empty means threshold.
func IntensityByName(name string) (IntensityFunc, error) {
	switch strings.ToLower(name) {
	case "", IntensityThreshold:
		return ThresholdIntensity, nil
	case IntensityLogistic, "smooth":
		return LogisticIntensity, nil
	default:
		return nil, newError(ErrInvalidParameter, "", "", "unknown intensity strategy %q", name)
	}
}

var preferenceText = map[int]string{
	1: "equally preferred to",
	3: "moderately preferred to",
	5: "strongly preferred to",
	7: "very strongly preferred to",
	9: "extremely preferred to",
}

// PreferenceText describes a Saaty intensity in words.
func PreferenceText(intensity int) string {
	if s, ok := preferenceText[intensity]; ok {
		return s
	}
	return preferenceText[1]
}

// DescribeComparisons renders each unordered pair of m as a sentence, putting
// the dominant alternative first.
func DescribeComparisons(m PairwiseMatrix, names []string) []string {
	n := m.Order()
	out := make([]string, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b, v := names[i], names[j], m[i][j]
			if v < 1 {
				a, b, v = b, a, m[j][i]
			}
			out = append(out, fmt.Sprintf("%s is %s %s", a, PreferenceText(int(math.Round(v))), b))
		}
	}
	return out
}
