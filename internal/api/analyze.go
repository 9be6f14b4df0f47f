package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
)

type AnalyzeHandler struct {
	service *analysis.Service
}

func NewAnalyzeHandler(svc *analysis.Service) *AnalyzeHandler {
	return &AnalyzeHandler{service: svc}
}

type CompareRequest struct {
	analysis.Request
	Methods []string `json:"methods,omitempty"`
}

type CompareResponse struct {
	Results map[scoring.Method]*analysis.Analysis `json:"results"`
}

func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Method == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "method required"})
		return
	}
	h.analyze(w, r, &req)
}

// AnalyzeMethod takes the method from the path; a method in the body is
// ignored.
func (h *AnalyzeHandler) AnalyzeMethod(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	req.Method = chi.URLParam(r, "method")
	h.analyze(w, r, &req)
}

func (h *AnalyzeHandler) analyze(w http.ResponseWriter, r *http.Request, req *analysis.Request) {
	if req.RequestID == "" {
		req.RequestID = chiMiddleware.GetReqID(r.Context())
	}
	a, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AnalyzeHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	results, err := h.service.Compare(r.Context(), &req.Request, req.Methods)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Results: results})
}
