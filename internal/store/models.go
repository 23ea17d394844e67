package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
)

type ContractStatus string

const (
	ContractNew        ContractStatus = "new"
	ContractInProgress ContractStatus = "in_progress"
	ContractTerminated ContractStatus = "terminated"
)

// Account is a profile acting as client or contractor.
type Account struct {
	ID         string          `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Profession string          `json:"profession"`
	Role       Role            `json:"role"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (a Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Contract struct {
	ID           string         `json:"id"`
	Terms        string         `json:"terms"`
	Status       ContractStatus `json:"status"`
	ClientID     string         `json:"client_id"`
	ContractorID string         `json:"contractor_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Job is billed at a fixed Price. Paid only ever moves from false to true,
// and PaymentDate is set in the same write.
type Job struct {
	ID          string          `json:"id"`
	ContractID  string          `json:"contract_id,omitempty"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProfessionEarnings struct {
	Profession string          `json:"profession"`
	Total      decimal.Decimal `json:"total"`
}

type ClientPayments struct {
	ClientID string          `json:"id"`
	FullName string          `json:"full_name"`
	Paid     decimal.Decimal `json:"paid"`
}
