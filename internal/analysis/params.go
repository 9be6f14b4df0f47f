package analysis

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
)

// Params are the method parameters of a request. Keys that do not apply to
// the selected method are ignored by the engine.
type Params struct {
	Weights            []float64 `json:"weights,omitempty" mapstructure:"weights"`
	CriteriaImportance []float64 `json:"criteria_importance,omitempty" mapstructure:"criteria_importance"`
	WeightMethod       string    `json:"weight_method,omitempty" mapstructure:"weight_method"`
	WeightDerivation   string    `json:"weight_derivation,omitempty" mapstructure:"weight_derivation"`
	Intensity          string    `json:"intensity,omitempty" mapstructure:"intensity"`
	Explain            bool      `json:"explain,omitempty" mapstructure:"explain"`

	Q         []float64 `json:"q,omitempty" mapstructure:"q"`
	S         []float64 `json:"s,omitempty" mapstructure:"s"`
	P         []float64 `json:"p,omitempty" mapstructure:"p"`
	Functions []string  `json:"functions,omitempty" mapstructure:"functions"`
	F         []string  `json:"f,omitempty" mapstructure:"f"`

	Lambda *float64 `json:"lambda,omitempty" mapstructure:"lambda"`
}

// DecodeParams decodes a loosely typed parameter map, as found in event
// payloads. Unknown keys are rejected so typos do not silently fall back to
// defaults.
func DecodeParams(raw map[string]interface{}) (Params, error) {
	var p Params
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &p,
		ErrorUnused: true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, &scoring.Error{Kind: scoring.ErrInvalidParameter, Detail: fmt.Sprintf("params: %v", err)}
	}
	return p, nil
}

// apply copies the parameters onto an engine request, resolving the legacy
// weight_derivation and F spellings.
func (p Params) apply(req *scoring.Request) {
	req.Weights = p.Weights
	req.CriteriaImportance = p.CriteriaImportance
	req.WeightMethod = p.WeightMethod
	if req.WeightMethod == "" {
		req.WeightMethod = p.WeightDerivation
	}
	req.Intensity = p.Intensity
	req.Explain = p.Explain
	req.Q, req.S, req.P = p.Q, p.S, p.P
	req.Functions = p.Functions
	if req.Functions == nil {
		req.Functions = p.F
	}
	req.Lambda = p.Lambda
}
