package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	appadmin "marketplace-ledger/internal/app/admin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	db       Pinger
	adminSvc *appadmin.Service
}

func NewAdminHandlers(db Pinger, adminSvc *appadmin.Service) *AdminHandlers {
	return &AdminHandlers{db: db, adminSvc: adminSvc}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) BestProfession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp, err := h.adminSvc.BestProfession(r.Context(), q.Get("start"), q.Get("end"))
		if err != nil {
			if errors.Is(err, appadmin.ErrNoPaidJobs) {
				WriteHTTPError(w, http.StatusNotFound, "no_paid_jobs")
				return
			}
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) BestClients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp, err := h.adminSvc.BestClients(r.Context(), q.Get("start"), q.Get("end"), q.Get("limit"))
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
