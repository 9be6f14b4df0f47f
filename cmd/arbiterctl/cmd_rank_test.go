package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
)

const sampleInput = `method: topsis
criteria: [revenue, stock_volatility]
alternatives:
  - id: a
    name: Alpha
    values: {revenue: 100, stock_volatility: 20}
  - id: b
    name: Beta
    values: {revenue: 80, stock_volatility: 25}
  - id: c
    name: Gamma
    values: {revenue: 50, stock_volatility: 30}
params:
  weights: [1, 1]
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRankTable(t *testing.T) {
	out, err := execute(t, "", "rank", writeInput(t, sampleInput))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Method: TOPSIS", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "RANK"), "header line %q", lines[1])
	assert.Contains(t, lines[2], "Alpha")
	assert.Contains(t, lines[2], "1.0000")
	assert.Contains(t, lines[4], "Gamma")
	assert.Contains(t, out, "Pareto frontier: a")
}

func TestRankJSONWithFlagOverrides(t *testing.T) {
	out, err := execute(t, "", "rank", writeInput(t, sampleInput),
		"--method", "waspas", "--lambda", "1", "-o", "json")
	require.NoError(t, err)

	var a analysis.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, scoring.MethodWASPAS, a.Method)
	require.NotNil(t, a.Result.WASPAS)
	assert.Equal(t, 1.0, a.Result.WASPAS.Lambda)
	// lambda 1 is plain WSM: Gamma scores 0.5*0.5 + 0.5*(20/30).
	assert.InDelta(t, 0.5833, a.Result.Ranked[2].Score, 1e-4)
}

func TestRankFromStdin(t *testing.T) {
	out, err := execute(t, sampleInput, "rank", "-", "--method", "promethee", "--criteria", "revenue", "--weights", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Method: PROMETHEE")
}

func TestRankAll(t *testing.T) {
	out, err := execute(t, "", "rank", writeInput(t, sampleInput), "--method", "all", "--weights", "1,1")
	require.NoError(t, err)
	for _, m := range scoring.AllMethods {
		assert.Contains(t, out, "Method: "+strings.ToUpper(string(m)))
	}
}

func TestRankAHPExplain(t *testing.T) {
	out, err := execute(t, "", "rank", writeInput(t, sampleInput), "--method", "ahp", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "Criteria consistency ratio")
	assert.Contains(t, out, "Alpha is very strongly preferred to Gamma")
}

func TestRankErrors(t *testing.T) {
	input := writeInput(t, sampleInput)
	tests := []struct {
		name       string
		args       []string
		validation bool
	}{
		{"weights mismatch", []string{"rank", input, "--weights", "1,2,3"}, true},
		{"unknown criterion", []string{"rank", input, "--criteria", "ebit"}, true},
		{"bad lambda", []string{"rank", input, "--method", "waspas", "--lambda", "2"}, true},
		{"bad policy", []string{"rank", input, "--method", "ahp", "--policy", "lenient"}, true},
		{"bad output", []string{"rank", input, "-o", "xml"}, false},
		{"missing file", []string{"rank", filepath.Join(t.TempDir(), "nope.yaml")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.validation, scoring.IsValidation(err), "error %v", err)
		})
	}

	t.Run("no method", func(t *testing.T) {
		_, err := execute(t, "", "rank", writeInput(t, strings.Replace(sampleInput, "method: topsis\n", "", 1)))
		assert.ErrorContains(t, err, "no method given")
	})

	t.Run("unknown param key", func(t *testing.T) {
		_, err := execute(t, "", "rank", writeInput(t, sampleInput+"  wieghts: [1, 1]\n"))
		assert.ErrorIs(t, err, scoring.ErrInvalidParameter)
	})
}

func TestCriteriaAndMethodsCommands(t *testing.T) {
	out, err := execute(t, "", "criteria")
	require.NoError(t, err)
	assert.Contains(t, out, "stock_volatility")
	assert.Contains(t, out, "cost")

	out, err = execute(t, "", "criteria", "-o", "json")
	require.NoError(t, err)
	var criteria []catalog.Criterion
	require.NoError(t, json.Unmarshal([]byte(out), &criteria))
	assert.Len(t, criteria, catalog.Default().Len())

	out, err = execute(t, "", "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "waspas")

	custom := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("criteria:\n  - id: margin\n    name: Margin\n    direction: max\n"), 0o644))
	out, err = execute(t, "", "criteria", "--catalog", custom)
	require.NoError(t, err)
	assert.Contains(t, out, "margin")
	assert.NotContains(t, out, "revenue")
}

func TestWriteTableAlignsWideNames(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"ID", "NAME"}, [][]string{{"1", "東京"}, {"22", "Oslo"}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID  NAME", lines[0])
	assert.Equal(t, "1   東京", lines[1])
	assert.Equal(t, "22  Oslo", lines[2])
}
