package httptransport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"marketplace-ledger/internal/ledger"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxRequestBody = 1 << 16

// Payments is the money-moving surface; *ledger.Ledger implements it.
type Payments interface {
	PayForJob(ctx context.Context, jobID, payerID string) (*ledger.PaymentReceipt, error)
	Deposit(ctx context.Context, clientID string, amount decimal.Decimal) (*ledger.DepositReceipt, error)
}

type LedgerHandlers struct {
	ledger Payments
}

func NewLedgerHandlers(l Payments) *LedgerHandlers {
	return &LedgerHandlers{ledger: l}
}

func (h *LedgerHandlers) Pay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := ProfileFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		receipt, err := h.ledger.PayForJob(r.Context(), chi.URLParam(r, "job_id"), profile.ID)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, receipt)
	}
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// Deposit only credits the caller's own account.
func (h *LedgerHandlers) Deposit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := ProfileFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var body depositRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Amount == nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if chi.URLParam(r, "user_id") != profile.ID {
			writeJSON(w, http.StatusForbidden, errorBody{
				Error:   "forbidden",
				Kind:    string(ledger.KindForbidden),
				Message: "Deposits are only allowed into your own account",
			})
			return
		}
		receipt, err := h.ledger.Deposit(r.Context(), profile.ID, *body.Amount)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, receipt)
	}
}
