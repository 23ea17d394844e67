package httptransport

import (
	"errors"
	"net/http"

	"marketplace-ledger/internal/ledger"

	"github.com/rs/zerolog/log"
)

var kindStatus = map[ledger.Kind]int{
	ledger.KindNotFound:          http.StatusNotFound,
	ledger.KindForbidden:         http.StatusForbidden,
	ledger.KindConflict:          http.StatusConflict,
	ledger.KindInsufficientFunds: http.StatusBadRequest,
	ledger.KindInvalidAmount:     http.StatusBadRequest,
	ledger.KindNoObligation:      http.StatusBadRequest,
	ledger.KindLockConflict:      http.StatusConflict,
	ledger.KindInvalidInput:      http.StatusBadRequest,
}

// lockConflictRetryAfter is the Retry-After hint, in seconds, sent with
// lock_conflict responses.
const lockConflictRetryAfter = "1"

type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Cap     string `json:"cap,omitempty"`
}

// writeLedgerError renders a typed ledger failure. Anything else is logged
// and reported as internal_error without detail.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var e *ledger.Error
	if !errors.As(err, &e) {
		log.Error().Err(err).Str("route", routePattern(r)).Msg("request_failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	status, ok := kindStatus[e.Kind]
	if !ok {
		status = http.StatusBadRequest
	}
	if e.Kind == ledger.KindLockConflict {
		w.Header().Set("Retry-After", lockConflictRetryAfter)
	}
	body := errorBody{Error: e.Code, Kind: string(e.Kind), Message: e.Message}
	if e.Cap != nil {
		body.Cap = e.Cap.StringFixed(2)
	}
	writeJSON(w, status, body)
}
