package scoring

import (
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

// Method identifies a ranking method.
type Method string

const (
	MethodAHP       Method = "ahp"
	MethodTOPSIS    Method = "topsis"
	MethodPromethee Method = "promethee"
	MethodWASPAS    Method = "waspas"
	MethodWSM       Method = "wsm"
	MethodWPM       Method = "wpm"
)

// AllMethods lists every method in catalog order.
var AllMethods = []Method{MethodAHP, MethodTOPSIS, MethodPromethee, MethodWASPAS, MethodWSM, MethodWPM}

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if m == "promethee_ii" || m == "promethee2" {
		m = MethodPromethee
	}
	for _, known := range AllMethods {
		if m == known {
			return m, nil
		}
	}
	return "", newError(ErrInvalidParameter, "", "", "unknown method %q", s)
}

// Request is one analysis: the alternatives, the active criteria and the
// parameters of the selected method. Parameters for other methods are ignored.
type Request struct {
	Method       Method
	Alternatives []Alternative
	Criteria     []catalog.Criterion

	// Criterion weights for TOPSIS, PROMETHEE, WASPAS, WSM and WPM.
	Weights []float64

	// AHP
	CriteriaImportance []float64
	WeightMethod       string
	Intensity          string
	Explain            bool

	// PROMETHEE
	Q         []float64
	S         []float64
	P         []float64
	Functions []string

	// WASPAS; nil uses the engine default.
	Lambda *float64
}

// Result carries the ranking plus the method-specific diagnostics.
type Result struct {
	Method         Method              `json:"method"`
	Ranked         []RankedAlternative `json:"ranked"`
	ParetoFrontier []string            `json:"pareto_frontier"`

	AHP       *AHPResult         `json:"ahp,omitempty"`
	TOPSIS    *TOPSISResult      `json:"topsis,omitempty"`
	Promethee *PrometheeResult   `json:"promethee,omitempty"`
	WASPAS    *WASPASResult      `json:"waspas,omitempty"`
	WSM       *SingleModelResult `json:"wsm,omitempty"`
	WPM       *SingleModelResult `json:"wpm,omitempty"`
}

// Warnings returns non-fatal diagnostics raised while ranking.
func (r *Result) Warnings() []string {
	if r.AHP != nil {
		return r.AHP.Warnings
	}
	return nil
}

// EngineOptions are the process-wide defaults a request may override.
type EngineOptions struct {
	WeightMethod WeightMethod
	Intensity    string
	Policy       ConsistencyPolicy
	Threshold    float64
	Lambda       float64
}

// DefaultEngineOptions are used when nothing is configured.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		WeightMethod: WeightGeometric,
		Intensity:    IntensityThreshold,
		Policy:       ConsistencyStrict,
		Threshold:    DefaultConsistencyThreshold,
		Lambda:       DefaultLambda,
	}
}

// Engine runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	opts   EngineOptions
	logger *slog.Logger
}

func NewEngine(opts EngineOptions, logger *slog.Logger) *Engine {
	return &Engine{opts: opts, logger: logger}
}

// Run validates req, builds the decision matrix and executes the method.
func (e *Engine) Run(req *Request) (*Result, error) {
	method, err := ParseMethod(string(req.Method))
	if err != nil {
		return nil, err
	}
	dm, err := NewDecisionMatrix(req.Alternatives, req.Criteria)
	if err != nil {
		return nil, err
	}

	result := &Result{Method: method, ParetoFrontier: ParetoFrontier(dm)}
	switch method {
	case MethodAHP:
		opts, err := e.ahpOptions(req)
		if err != nil {
			return nil, err
		}
		r, err := RankAHP(dm, opts)
		if err != nil {
			return nil, err
		}
		result.AHP, result.Ranked = r, r.Ranked
	case MethodTOPSIS:
		r, err := RankTOPSIS(dm, req.Weights)
		if err != nil {
			return nil, err
		}
		result.TOPSIS, result.Ranked = r, r.Ranked
	case MethodPromethee:
		fns := make([]PreferenceFunction, 0, len(req.Functions))
		for _, f := range req.Functions {
			fns = append(fns, PreferenceFunction(f))
		}
		if req.Functions == nil {
			fns = nil
		}
		r, err := RankPromethee(dm, PrometheeParams{Weights: req.Weights, Q: req.Q, S: req.S, P: req.P, Functions: fns})
		if err != nil {
			return nil, err
		}
		result.Promethee, result.Ranked = r, r.Ranked
	case MethodWASPAS:
		lambda := e.opts.Lambda
		if req.Lambda != nil {
			lambda = *req.Lambda
		}
		r, err := RankWASPAS(dm, req.Weights, lambda)
		if err != nil {
			return nil, err
		}
		result.WASPAS, result.Ranked = r, r.WASPAS
	case MethodWSM:
		r, err := RankWSM(dm, req.Weights)
		if err != nil {
			return nil, err
		}
		result.WSM, result.Ranked = r, r.Ranked
	case MethodWPM:
		r, err := RankWPM(dm, req.Weights)
		if err != nil {
			return nil, err
		}
		result.WPM, result.Ranked = r, r.Ranked
	}

	for _, w := range result.Warnings() {
		e.logger.Warn("analysis warning", "method", method, "warning", w)
	}
	e.logger.Debug("analysis ranked",
		"method", method,
		"alternatives", dm.Rows(),
		"criteria", dm.Cols(),
		"top", result.Ranked[0].ID,
	)
	return result, nil
}

func (e *Engine) ahpOptions(req *Request) (AHPOptions, error) {
	wm := e.opts.WeightMethod
	if req.WeightMethod != "" {
		parsed, err := ParseWeightMethod(req.WeightMethod)
		if err != nil {
			return AHPOptions{}, err
		}
		wm = parsed
	}
	name := e.opts.Intensity
	if req.Intensity != "" {
		name = req.Intensity
	}
	fn, err := IntensityByName(name)
	if err != nil {
		return AHPOptions{}, err
	}
	return AHPOptions{
		WeightMethod:       wm,
		Intensity:          fn,
		CriteriaImportance: req.CriteriaImportance,
		Policy:             e.opts.Policy,
		Threshold:          e.opts.Threshold,
		Explain:            req.Explain,
	}, nil
}
