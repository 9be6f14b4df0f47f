package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

type errorResponse struct {
	Error       string `json:"error"`
	Kind        string `json:"kind,omitempty"`
	Criterion   string `json:"criterion,omitempty"`
	Alternative string `json:"alternative,omitempty"`
}

// writeError maps engine and store failures onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case scoring.IsValidation(err):
		resp := errorResponse{Error: err.Error(), Kind: scoring.KindName(err)}
		var se *scoring.Error
		if errors.As(err, &se) {
			resp.Criterion, resp.Alternative = se.Criterion, se.Alternative
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, analysis.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody rejects unknown fields so misspelled parameters are not
// silently replaced by defaults.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
