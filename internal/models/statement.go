package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is the database representation of one ledger posting.
// sender_id is populated on transfer rows only and holds the sender's user ID
// on both rows of the pair.
type Statement struct {
	StatementID string          `db:"statement_id"`
	OwnerID     string          `db:"owner_id"`
	Type        string          `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	SenderID    *string         `db:"sender_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
