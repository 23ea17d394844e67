package admin

import "marketplace-ledger/internal/store"

type BestClientsResponse struct {
	Items []store.ClientPayments `json:"items"`
	Limit int                    `json:"limit"`
}
