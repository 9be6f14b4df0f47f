package scoring

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

var (
	revenue    = catalog.Criterion{ID: "revenue", Name: "Revenue", Direction: catalog.Benefit}
	roe        = catalog.Criterion{ID: "roe", Name: "ROE", Direction: catalog.Benefit}
	volatility = catalog.Criterion{ID: "stock_volatility", Name: "Stock Volatility", Direction: catalog.Cost}
	pe         = catalog.Criterion{ID: "price_to_earnings_ratio", Direction: catalog.Cost}
)

func companies() []Alternative {
	return []Alternative{
		{ID: "a", Name: "Alpha", Values: map[string]float64{"revenue": 100, "roe": 0.2, "stock_volatility": 20, "price_to_earnings_ratio": 10}},
		{ID: "b", Name: "Beta", Values: map[string]float64{"revenue": 80, "roe": 0.15, "stock_volatility": 25, "price_to_earnings_ratio": 12}},
		{ID: "c", Name: "Gamma", Values: map[string]float64{"revenue": 50, "roe": 0.1, "stock_volatility": 30, "price_to_earnings_ratio": 15}},
	}
}

func mustMatrix(t *testing.T, alts []Alternative, criteria ...catalog.Criterion) *DecisionMatrix {
	t.Helper()
	dm, err := NewDecisionMatrix(alts, criteria)
	if err != nil {
		t.Fatalf("NewDecisionMatrix: %v", err)
	}
	return dm
}

func TestParseWeightMethod(t *testing.T) {
	tests := map[string]WeightMethod{
		"": WeightGeometric, "geometric": WeightGeometric, "g": WeightGeometric,
		"mean": WeightMean, "m": WeightMean,
		"eigen": WeightEigen, "max_eigen": WeightEigen, "me": WeightEigen,
	}
	for in, want := range tests {
		got, err := ParseWeightMethod(in)
		if err != nil || got != want {
			t.Errorf("ParseWeightMethod(%q) = %q, %v; expected %q", in, got, err, want)
		}
	}
	if _, err := ParseWeightMethod("harmonic"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestDeriveWeights(t *testing.T) {
	// Synthesised from revenue 100/80/50.
	m := PairwiseMatrix{
		{1, 3, 7},
		{1.0 / 3, 1, 5},
		{1.0 / 7, 1.0 / 5, 1},
	}
	tests := []struct {
		method WeightMethod
		want   []float64
		cr     float64
	}{
		{WeightGeometric, []float64{0.6491, 0.2790, 0.0719}, 0.0559},
		{WeightMean, []float64{0.6434, 0.2828, 0.0738}, 0.0565},
		{WeightEigen, []float64{0.6491, 0.2790, 0.0719}, 0.0559},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			w, cr, err := DeriveWeights(m, tt.method)
			if err != nil {
				t.Fatalf("DeriveWeights: %v", err)
			}
			if math.Abs(w.Sum()-1) > 1e-9 {
				t.Errorf("weights sum to %f, expected 1", w.Sum())
			}
			for i := range tt.want {
				if math.Abs(w[i]-tt.want[i]) > 1e-3 {
					t.Errorf("w[%d] = %f, expected %f", i, w[i], tt.want[i])
				}
			}
			if math.Abs(cr-tt.cr) > 1e-3 {
				t.Errorf("CR = %f, expected %f", cr, tt.cr)
			}
		})
	}
}

func TestDeriveWeightsEmptyMethodIsGeometric(t *testing.T) {
	m := PairwiseMatrix{
		{1, 3, 7},
		{1.0 / 3, 1, 5},
		{1.0 / 7, 1.0 / 5, 1},
	}
	got, gotCR, err := DeriveWeights(m, "")
	if err != nil {
		t.Fatalf("DeriveWeights: %v", err)
	}
	want, wantCR, _ := DeriveWeights(m, WeightGeometric)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("w[%d] = %f, expected geometric %f", i, got[i], want[i])
		}
	}
	if math.Abs(gotCR-wantCR) > 1e-12 {
		t.Errorf("CR = %f, expected %f", gotCR, wantCR)
	}
}

func TestDeriveWeightsSumToOne(t *testing.T) {
	inputs := [][]float64{{100, 80, 50, 30}, {1, 2}, {5, 5, 5}, {3, 9, 27, 81, 243}}
	for _, method := range []WeightMethod{WeightMean, WeightGeometric, WeightEigen} {
		for _, in := range inputs {
			w, cr, err := DeriveWeights(Synthesize(in, catalog.Benefit, ThresholdIntensity), method)
			if err != nil {
				t.Fatalf("%s %v: %v", method, in, err)
			}
			if math.Abs(w.Sum()-1) > 1e-9 {
				t.Errorf("%s %v: weights sum to %f", method, in, w.Sum())
			}
			if cr < 0 {
				t.Errorf("%s %v: negative CR %f", method, in, cr)
			}
		}
	}
}

func TestDeriveWeightsConsistentMatrix(t *testing.T) {
	// A perfectly consistent matrix built from w = (4, 2, 1).
	m := PairwiseMatrix{
		{1, 2, 4},
		{0.5, 1, 2},
		{0.25, 0.5, 1},
	}
	for _, method := range []WeightMethod{WeightMean, WeightGeometric, WeightEigen} {
		w, cr, err := DeriveWeights(m, method)
		if err != nil {
			t.Fatal(err)
		}
		want := []float64{4.0 / 7, 2.0 / 7, 1.0 / 7}
		for i := range want {
			if math.Abs(w[i]-want[i]) > 1e-9 {
				t.Errorf("%s: w[%d] = %f, expected %f", method, i, w[i], want[i])
			}
		}
		if cr > 1e-9 {
			t.Errorf("%s: CR = %g, expected 0", method, cr)
		}
	}
}

func TestDeriveWeightsSmallOrders(t *testing.T) {
	w, cr, err := DeriveWeights(PairwiseMatrix{{1}}, WeightEigen)
	if err != nil || len(w) != 1 || w[0] != 1 || cr != 0 {
		t.Errorf("order 1: got %v, %f, %v", w, cr, err)
	}
	_, cr, err = DeriveWeights(PairwiseMatrix{{1, 9}, {1.0 / 9, 1}}, WeightMean)
	if err != nil || cr != 0 {
		t.Errorf("order 2: CR = %f, err = %v; expected 0", cr, err)
	}
}

func TestDeriveWeightsRejectsInvalidMatrix(t *testing.T) {
	_, _, err := DeriveWeights(PairwiseMatrix{{1, 3}, {3, 1}}, WeightGeometric)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	_, _, err = DeriveWeights(PairwiseMatrix{{1}}, WeightMethod("median"))
	if err != nil {
		t.Errorf("order 1 short-circuits before method dispatch, got %v", err)
	}
	_, _, err = DeriveWeights(PairwiseMatrix{{1, 1}, {1, 1}}, WeightMethod("median"))
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown method, got %v", err)
	}
}

func TestRandomIndex(t *testing.T) {
	if RandomIndex(3) != 0.58 || RandomIndex(10) != 1.49 {
		t.Errorf("unexpected table values %f %f", RandomIndex(3), RandomIndex(10))
	}
	if RandomIndex(40) != 1.59 {
		t.Errorf("orders past the table should use the last entry, got %f", RandomIndex(40))
	}
}

func TestRankAHP(t *testing.T) {
	dm := mustMatrix(t, companies(), revenue, volatility)

	r, err := RankAHP(dm, AHPOptions{})
	if err != nil {
		t.Fatalf("RankAHP: %v", err)
	}
	if r.WeightMethod != WeightGeometric {
		t.Errorf("expected geometric default, got %s", r.WeightMethod)
	}
	if len(r.CriteriaWeights) != 2 || math.Abs(r.CriteriaWeights[0]-0.5) > 1e-9 {
		t.Errorf("expected equal criteria weights, got %v", r.CriteriaWeights)
	}
	if r.CriteriaConsistencyRatio != 0 {
		t.Errorf("expected criteria CR 0, got %f", r.CriteriaConsistencyRatio)
	}
	if len(r.AlternativeWeights) != 2 {
		t.Fatalf("expected 2 criterion weight sets, got %d", len(r.AlternativeWeights))
	}
	if r.AlternativeWeights[1].CriterionID != "stock_volatility" || r.AlternativeWeights[1].Criterion != "Stock Volatility" {
		t.Errorf("unexpected criterion labels %+v", r.AlternativeWeights[1])
	}
	if r.AlternativeWeights[0].Matrix != nil {
		t.Error("matrix should only be included when explaining")
	}

	wantOrder := []string{"a", "b", "c"}
	var total float64
	for i, ra := range r.Ranked {
		if ra.ID != wantOrder[i] || ra.Rank != i+1 {
			t.Errorf("rank %d: got %s (rank %d), expected %s", i+1, ra.ID, ra.Rank, wantOrder[i])
		}
		total += ra.Score
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("AHP scores sum to %f, expected 1", total)
	}
	// 0.5*0.6491 + 0.5*0.6370
	if math.Abs(r.Ranked[0].Score-0.6431) > 1e-3 {
		t.Errorf("top score = %f, expected ~0.6431", r.Ranked[0].Score)
	}
}

func TestRankAHPInconsistent(t *testing.T) {
	dm := mustMatrix(t, companies(), revenue, roe)

	_, err := RankAHP(dm, AHPOptions{})
	if !errors.Is(err, ErrInconsistentJudgment) {
		t.Fatalf("expected ErrInconsistentJudgment, got %v", err)
	}
	var se *Error
	if !errors.As(err, &se) || se.Criterion != "roe" {
		t.Errorf("expected error naming roe, got %v", err)
	}

	t.Run("warn policy keeps the result", func(t *testing.T) {
		r, err := RankAHP(dm, AHPOptions{Policy: ConsistencyWarn})
		if err != nil {
			t.Fatalf("RankAHP: %v", err)
		}
		if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "roe") {
			t.Errorf("expected one roe warning, got %v", r.Warnings)
		}
		if r.AlternativeWeights[1].ConsistencyRatio <= DefaultConsistencyThreshold {
			t.Errorf("expected roe CR above threshold, got %f", r.AlternativeWeights[1].ConsistencyRatio)
		}
	})

	t.Run("looser threshold", func(t *testing.T) {
		if _, err := RankAHP(dm, AHPOptions{Threshold: 0.2}); err != nil {
			t.Errorf("expected success with threshold 0.2, got %v", err)
		}
	})
}

func TestRankAHPCriteriaImportance(t *testing.T) {
	dm := mustMatrix(t, companies(), revenue, volatility, pe)

	r, err := RankAHP(dm, AHPOptions{CriteriaImportance: []float64{3, 2, 2}})
	if err != nil {
		t.Fatalf("RankAHP: %v", err)
	}
	if !(r.CriteriaWeights[0] > r.CriteriaWeights[1]) || math.Abs(r.CriteriaWeights[1]-r.CriteriaWeights[2]) > 1e-9 {
		t.Errorf("expected revenue to outweigh the tied cost criteria, got %v", r.CriteriaWeights)
	}

	_, err = RankAHP(dm, AHPOptions{CriteriaImportance: []float64{1, 1}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	_, err = RankAHP(dm, AHPOptions{CriteriaImportance: []float64{1, 0, 2}})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for zero importance, got %v", err)
	}
	var se *Error
	if !errors.As(err, &se) || se.Criterion != "stock_volatility" {
		t.Errorf("expected error naming stock_volatility, got %v", err)
	}
}

func TestRankAHPExplainAndZeroWarning(t *testing.T) {
	alts := companies()
	alts[2].Values["revenue"] = 0
	dm := mustMatrix(t, alts, revenue)

	r, err := RankAHP(dm, AHPOptions{Explain: true, Policy: ConsistencyWarn})
	if err != nil {
		t.Fatalf("RankAHP: %v", err)
	}
	cw := r.AlternativeWeights[0]
	if cw.Matrix == nil || len(cw.Comparisons) != 3 {
		t.Errorf("expected matrix and 3 comparisons, got %v %v", cw.Matrix, cw.Comparisons)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "Gamma") && strings.Contains(w, "zero") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a zero-value warning for Gamma, got %v", r.Warnings)
	}
}
