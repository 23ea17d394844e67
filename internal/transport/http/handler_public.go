package httptransport

import (
	"errors"
	"net/http"

	"marketplace-ledger/internal/app/catalog"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	catalogSvc *catalog.Service
}

func NewPublicHandlers(catalogSvc *catalog.Service) *PublicHandlers {
	return &PublicHandlers{catalogSvc: catalogSvc}
}

func (h *PublicHandlers) Contract() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, _ := ProfileFromContext(r.Context())
		resp, err := h.catalogSvc.Contract(r.Context(), chi.URLParam(r, "id"), profile.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrContractNotFound) {
				WriteHTTPError(w, http.StatusNotFound, "contract_not_found")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PublicHandlers) Contracts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, _ := ProfileFromContext(r.Context())
		resp, err := h.catalogSvc.ActiveContracts(r.Context(), profile.ID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PublicHandlers) UnpaidJobs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, _ := ProfileFromContext(r.Context())
		resp, err := h.catalogSvc.UnpaidJobs(r.Context(), profile.ID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
