package api

import (
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
)

// AHPHandler exposes the pairwise building blocks of AHP on their own.
type AHPHandler struct {
	catalog   *catalog.Catalog
	threshold float64
}

func NewAHPHandler(c *catalog.Catalog, threshold float64) *AHPHandler {
	return &AHPHandler{catalog: c, threshold: threshold}
}

type WeightsRequest struct {
	Matrix [][]float64 `json:"matrix"`
	Method string      `json:"method,omitempty"`
}

type WeightsResponse struct {
	Method           scoring.WeightMethod `json:"method"`
	Weights          scoring.WeightSet    `json:"weights"`
	ConsistencyRatio float64              `json:"consistency_ratio"`
	Consistent       bool                 `json:"consistent"`
}

func (h *AHPHandler) Weights(w http.ResponseWriter, r *http.Request) {
	var req WeightsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	method, err := scoring.ParseWeightMethod(req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	weights, cr, err := scoring.DeriveWeights(scoring.PairwiseMatrix(req.Matrix), method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WeightsResponse{
		Method:           method,
		Weights:          weights,
		ConsistencyRatio: cr,
		Consistent:       cr <= h.threshold,
	})
}

// PairwiseRequest names a catalogued criterion or gives a direction
// explicitly. An explicit direction wins.
type PairwiseRequest struct {
	Criterion string    `json:"criterion,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Values    []float64 `json:"values"`
	Names     []string  `json:"names,omitempty"`
	Intensity string    `json:"intensity,omitempty"`
	Method    string    `json:"method,omitempty"`
}

type PairwiseResponse struct {
	Direction        catalog.Direction      `json:"direction"`
	Matrix           scoring.PairwiseMatrix `json:"matrix"`
	Comparisons      []string               `json:"comparisons"`
	Weights          scoring.WeightSet      `json:"weights"`
	ConsistencyRatio float64                `json:"consistency_ratio"`
	ZeroValued       []string               `json:"zero_valued,omitempty"`
}

func (h *AHPHandler) Pairwise(w http.ResponseWriter, r *http.Request) {
	var req PairwiseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	resp, err := h.pairwise(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AHPHandler) pairwise(req *PairwiseRequest) (*PairwiseResponse, error) {
	if len(req.Values) < 2 {
		return nil, &scoring.Error{
			Kind:      scoring.ErrInsufficientAlternatives,
			Criterion: req.Criterion,
			Detail:    fmt.Sprintf("at least two values are required, got %d", len(req.Values)),
		}
	}
	names := req.Names
	if names == nil {
		names = make([]string, len(req.Values))
		for i := range names {
			names[i] = fmt.Sprintf("A%d", i+1)
		}
	}
	if len(names) != len(req.Values) {
		return nil, &scoring.Error{
			Kind:   scoring.ErrDimensionMismatch,
			Detail: fmt.Sprintf("names has %d entries, expected %d", len(names), len(req.Values)),
		}
	}

	dir := catalog.Benefit
	if req.Criterion != "" {
		c, ok := h.catalog.Get(req.Criterion)
		if !ok {
			return nil, &scoring.Error{Kind: scoring.ErrInvalidParameter, Criterion: req.Criterion, Detail: "unknown criterion"}
		}
		dir = c.Direction
	}
	if req.Direction != "" {
		d, err := catalog.ParseDirection(req.Direction)
		if err != nil {
			return nil, &scoring.Error{Kind: scoring.ErrInvalidParameter, Criterion: req.Criterion, Detail: err.Error()}
		}
		dir = d
	}

	fn, err := scoring.IntensityByName(req.Intensity)
	if err != nil {
		return nil, err
	}
	method, err := scoring.ParseWeightMethod(req.Method)
	if err != nil {
		return nil, err
	}

	m := scoring.Synthesize(req.Values, dir, fn)
	weights, cr, err := scoring.DeriveWeights(m, method)
	if err != nil {
		return nil, err
	}
	resp := &PairwiseResponse{
		Direction:        dir,
		Matrix:           m,
		Comparisons:      scoring.DescribeComparisons(m, names),
		Weights:          weights,
		ConsistencyRatio: cr,
	}
	for _, i := range scoring.ZeroValued(req.Values) {
		resp.ZeroValued = append(resp.ZeroValued, names[i])
	}
	return resp, nil
}
