package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 10, c.Len())

	costs := map[string]bool{}
	for _, cr := range c.All() {
		if cr.Direction == Cost {
			costs[cr.ID] = true
		}
	}
	assert.Equal(t, map[string]bool{
		"price_to_earnings_ratio": true,
		"stock_volatility":        true,
		"EV_to_EBITDA":            true,
	}, costs)

	rev, ok := c.Get("revenue")
	require.True(t, ok)
	assert.Equal(t, "Revenue", rev.Name)
	assert.Equal(t, Benefit, rev.Direction)
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "mutated"
	first, _ := c.Get(all[0].ID)
	assert.Equal(t, "Revenue", first.Name)
}

func TestSelect(t *testing.T) {
	c := Default()

	t.Run("preserves caller order", func(t *testing.T) {
		got, err := c.Select([]string{"roe", "revenue"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "roe", got[0].ID)
		assert.Equal(t, "revenue", got[1].ID)
	})

	t.Run("empty selects all", func(t *testing.T) {
		got, err := c.Select(nil)
		require.NoError(t, err)
		assert.Len(t, got, c.Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := c.Select([]string{"revenue", "ebit"})
		assert.ErrorIs(t, err, ErrUnknownCriterion)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := c.Select([]string{"revenue", "revenue"})
		assert.Error(t, err)
	})
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"benefit", Benefit, false},
		{"max", Benefit, false},
		{"COST", Cost, false},
		{"min", Cost, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLegacyDirections(t *testing.T) {
	c, err := Parse([]byte(`
criteria:
  - id: margin
    direction: max
  - id: debt
    name: Debt
    direction: min
`))
	require.NoError(t, err)
	margin, _ := c.Get("margin")
	debt, _ := c.Get("debt")
	assert.Equal(t, Benefit, margin.Direction)
	assert.Equal(t, Cost, debt.Direction)
	assert.Equal(t, "margin", margin.DisplayName())
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"missing direction": "criteria:\n  - id: revenue\n",
		"bad direction":     "criteria:\n  - id: revenue\n    direction: up\n",
		"unknown field":     "criteria:\n  - id: revenue\n    direction: benefit\n    weight: 2\n",
		"empty list":        "criteria: []\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("criteria:\n  - id: a\n    direction: benefit\n  - id: a\n    direction: cost\n"))
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("criteria:\n  - id: score\n    direction: benefit\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	def, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), def)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMethods(t *testing.T) {
	ids := []string{}
	for _, m := range Methods() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"ahp", "topsis", "promethee", "waspas", "wsm", "wpm"}, ids)
	assert.True(t, HasMethod("promethee"))
	assert.False(t, HasMethod("electre"))
}
