package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

type CompaniesHandler struct {
	store store.Store
}

func NewCompaniesHandler(s store.Store) *CompaniesHandler {
	return &CompaniesHandler{store: s}
}

type CompanyDetail struct {
	*store.Company
	Indicators *store.Indicators `json:"indicators"`
}

func (h *CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, analysis.ErrStoreUnavailable)
		return
	}
	companies, err := h.store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if companies == nil {
		companies = []*store.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *CompaniesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, analysis.ErrStoreUnavailable)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid company id"})
		return
	}

	c, err := h.store.GetCompany(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	ind, err := h.store.GetIndicators(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompanyDetail{Company: c, Indicators: ind})
}
