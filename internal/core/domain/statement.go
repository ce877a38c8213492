package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType indicates the kind of money movement a statement records.
type OperationType string

const (
	Deposit  OperationType = "DEPOSIT"
	Withdraw OperationType = "WITHDRAW"
	Transfer OperationType = "TRANSFER"
)

// Valid reports whether t is one of the known operation types.
func (t OperationType) Valid() bool {
	switch t {
	case Deposit, Withdraw, Transfer:
		return true
	}
	return false
}

// Statement is one immutable posting in a user's ledger. A transfer is
// recorded as exactly two statements, one owned by each party, both carrying
// the sender's ID in CounterpartyID. Non-transfer statements have a nil
// CounterpartyID. Amount is always positive; the operation type and the
// counterparty determine the sign when reducing to a balance.
type Statement struct {
	StatementID    string          `json:"statementID"` // Primary Key (UUID)
	OwnerID        string          `json:"ownerID"`     // FK -> users.user_id, whose balance this affects
	Type           OperationType   `json:"type"`
	Amount         decimal.Decimal `json:"amount"` // Positive value; precise decimal type
	Description    string          `json:"description"`
	CounterpartyID *string         `json:"counterpartyID,omitempty"` // Sender's ID on both rows of a transfer pair
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// IsSenderSide reports whether this transfer statement is the debit row, i.e.
// its owner is the party the amount leaves.
func (s Statement) IsSenderSide() bool {
	return s.CounterpartyID != nil && *s.CounterpartyID == s.OwnerID
}
