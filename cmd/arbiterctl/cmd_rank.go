package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
)

// rankInput is the file format read by rank. JSON files parse as well since
// YAML is a superset.
type rankInput struct {
	Method       string                 `yaml:"method"`
	Criteria     []string               `yaml:"criteria"`
	Alternatives []scoring.Alternative  `yaml:"alternatives"`
	Params       map[string]interface{} `yaml:"params"`
}

type rankOptions struct {
	method       string
	criteria     []string
	weights      []float64
	lambda       float64
	weightMethod string
	intensity    string
	policy       string
	threshold    float64
	explain      bool
	output       string
}

func newRankCommand(root *rootOptions) *cobra.Command {
	opts := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank <input.yaml|input.json|->",
		Short: "Rank the alternatives of an input file",
		Long: `Rank the alternatives described in a YAML or JSON file.

The file lists alternatives with their criterion values and may name the
method, the active criteria and method parameters. Flags override the file.
Use --method all to run every method over the same inputs.`,
		Example: `  arbiterctl rank companies.yaml --method topsis --weights 0.5,0.3,0.2
  arbiterctl rank companies.json --method waspas --lambda 0.7 -o json
  arbiterctl rank companies.yaml --method ahp --weight-method eigen --explain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, root, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.method, "method", "m", "", "Ranking method: ahp, topsis, promethee, waspas, wsm, wpm or all")
	f.StringSliceVarP(&opts.criteria, "criteria", "c", nil, "Comma-separated criterion ids (default: file, then whole catalog)")
	f.Float64SliceVarP(&opts.weights, "weights", "w", nil, "Comma-separated criterion weights")
	f.Float64Var(&opts.lambda, "lambda", scoring.DefaultLambda, "WASPAS blend between WSM (1) and WPM (0)")
	f.StringVar(&opts.weightMethod, "weight-method", "", "AHP weight derivation: geometric, mean or eigen")
	f.StringVar(&opts.intensity, "intensity", "", "AHP intensity strategy: threshold or logistic")
	f.StringVar(&opts.policy, "policy", string(scoring.ConsistencyStrict), "AHP consistency policy: strict or warn")
	f.Float64Var(&opts.threshold, "threshold", scoring.DefaultConsistencyThreshold, "AHP consistency ratio threshold")
	f.BoolVar(&opts.explain, "explain", false, "Include AHP matrices and comparison texts")
	f.StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")

	return cmd
}

func readRankInput(path string, stdin io.Reader) (*rankInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var in rankInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return &in, nil
}

// buildRequest merges the file with the flags that were set explicitly.
func buildRequest(cmd *cobra.Command, opts *rankOptions, in *rankInput) (*analysis.Request, error) {
	params, err := analysis.DecodeParams(in.Params)
	if err != nil {
		return nil, err
	}
	req := &analysis.Request{
		Method:       in.Method,
		Alternatives: in.Alternatives,
		CriteriaIDs:  in.Criteria,
	}

	f := cmd.Flags()
	if f.Changed("method") {
		req.Method = opts.method
	}
	if f.Changed("criteria") {
		req.CriteriaIDs = opts.criteria
	}
	if f.Changed("weights") {
		params.Weights = opts.weights
	}
	if f.Changed("lambda") {
		l := opts.lambda
		params.Lambda = &l
	}
	if f.Changed("weight-method") {
		params.WeightMethod = opts.weightMethod
	}
	if f.Changed("intensity") {
		params.Intensity = opts.intensity
	}
	if opts.explain {
		params.Explain = true
	}
	req.Params = params

	if req.Method == "" {
		return nil, fmt.Errorf("no method given: set --method or method in the input file")
	}
	return req, nil
}

func runRank(cmd *cobra.Command, root *rootOptions, opts *rankOptions, path string) error {
	if opts.output != "table" && opts.output != "json" {
		return fmt.Errorf("unsupported output %q: must be table or json", opts.output)
	}
	cat, err := root.loadCatalog()
	if err != nil {
		return err
	}
	in, err := readRankInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, opts, in)
	if err != nil {
		return err
	}

	policy, err := scoring.ParseConsistencyPolicy(opts.policy)
	if err != nil {
		return err
	}
	engineOpts := scoring.DefaultEngineOptions()
	engineOpts.Policy = policy
	engineOpts.Threshold = opts.threshold

	logger := root.logger(cmd)
	svc := analysis.NewService(scoring.NewEngine(engineOpts, logger), cat, nil, nil, nil, opts.threshold, logger)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if strings.EqualFold(req.Method, "all") {
		results, err := svc.Compare(ctx, req, nil)
		if err != nil {
			return err
		}
		if opts.output == "json" {
			return writeJSON(out, results)
		}
		methods := make([]string, 0, len(results))
		for m := range results {
			methods = append(methods, string(m))
		}
		sort.Strings(methods)
		for i, m := range methods {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printAnalysis(out, results[scoring.Method(m)])
		}
		return nil
	}

	a, err := svc.Analyze(ctx, req)
	if err != nil {
		return err
	}
	if opts.output == "json" {
		return writeJSON(out, a)
	}
	printAnalysis(out, a)
	return nil
}

func printAnalysis(w io.Writer, a *analysis.Analysis) {
	fmt.Fprintf(w, "Method: %s\n", strings.ToUpper(string(a.Method)))
	rows := make([][]string, len(a.Result.Ranked))
	for i, r := range a.Result.Ranked {
		rows[i] = []string{strconv.Itoa(r.Rank), r.ID, r.Name, strconv.FormatFloat(r.Score, 'f', 4, 64)}
	}
	writeTable(w, []string{"RANK", "ID", "NAME", "SCORE"}, rows)
	fmt.Fprintf(w, "Pareto frontier: %s\n", strings.Join(a.Result.ParetoFrontier, ", "))

	if ahp := a.Result.AHP; ahp != nil {
		fmt.Fprintf(w, "Criteria consistency ratio: %.4f\n", ahp.CriteriaConsistencyRatio)
		for _, cw := range ahp.AlternativeWeights {
			fmt.Fprintf(w, "  %s: CR %.4f\n", cw.Criterion, cw.ConsistencyRatio)
			for _, c := range cw.Comparisons {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}
	}
	for _, warn := range a.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}
