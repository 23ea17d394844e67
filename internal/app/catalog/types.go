package catalog

import "marketplace-ledger/internal/store"

type ContractsResponse struct {
	Items []store.Contract `json:"items"`
}

type JobsResponse struct {
	Items []store.Job `json:"items"`
}
