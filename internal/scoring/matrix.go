package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

// Alternative is one ranked option and its raw criterion values.
type Alternative struct {
	ID     string             `json:"id" yaml:"id"`
	Name   string             `json:"name" yaml:"name"`
	Values map[string]float64 `json:"values" yaml:"values"`
}

// Label is the name used in rankings and messages.
func (a Alternative) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// DecisionMatrix holds alternatives as rows and active criteria as columns.
// It is built per analysis and not modified afterwards.
type DecisionMatrix struct {
	alternatives []Alternative
	criteria     []catalog.Criterion
	values       [][]float64
}

// NewDecisionMatrix validates profiles against the active criteria.
func NewDecisionMatrix(alts []Alternative, criteria []catalog.Criterion) (*DecisionMatrix, error) {
	if len(alts) < 2 {
		return nil, newError(ErrInsufficientAlternatives, "", "", "at least two alternatives are required, got %d", len(alts))
	}
	if len(criteria) == 0 {
		return nil, newError(ErrDimensionMismatch, "", "", "at least one criterion is required")
	}

	values := make([][]float64, len(alts))
	for i, a := range alts {
		row := make([]float64, len(criteria))
		for j, c := range criteria {
			v, ok := a.Values[c.ID]
			if !ok {
				return nil, newError(ErrMissingCriterionData, c.ID, a.Label(), "no value supplied")
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, newError(ErrInvalidParameter, c.ID, a.Label(), "value %v is not finite", v)
			}
			row[j] = v
		}
		values[i] = row
	}

	dm := &DecisionMatrix{
		alternatives: make([]Alternative, len(alts)),
		criteria:     make([]catalog.Criterion, len(criteria)),
		values:       values,
	}
	copy(dm.alternatives, alts)
	copy(dm.criteria, criteria)
	return dm, nil
}

func (m *DecisionMatrix) Rows() int { return len(m.values) }
func (m *DecisionMatrix) Cols() int { return len(m.criteria) }

func (m *DecisionMatrix) At(i, j int) float64 { return m.values[i][j] }

func (m *DecisionMatrix) Alternatives() []Alternative { return m.alternatives }
func (m *DecisionMatrix) Criteria() []catalog.Criterion { return m.criteria }

// Column returns a copy of column j.
func (m *DecisionMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.values))
	for i := range m.values {
		col[i] = m.values[i][j]
	}
	return col
}

// Row returns a copy of row i.
func (m *DecisionMatrix) Row(i int) []float64 {
	row := make([]float64, len(m.values[i]))
	copy(row, m.values[i])
	return row
}

func (m *DecisionMatrix) Directions() []catalog.Direction {
	out := make([]catalog.Direction, len(m.criteria))
	for j, c := range m.criteria {
		out[j] = c.Direction
	}
	return out
}

func (m *DecisionMatrix) Names() []string {
	out := make([]string, len(m.alternatives))
	for i, a := range m.alternatives {
		out[i] = a.Label()
	}
	return out
}
