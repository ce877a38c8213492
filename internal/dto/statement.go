package dto

import (
	"time"

	"github.com/finledger/finledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateStatementRequest defines the data needed to record a deposit or
// withdrawal. The operation type comes from the route, not the body.
type CreateStatementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gtzerodec"`
	Description string          `json:"description" binding:"required"`
}

// CreateTransferRequest defines the data needed to transfer funds to another
// user. The receiver comes from the route path.
type CreateTransferRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required,gtzerodec"`
	Description string          `json:"description" binding:"required"`
}

// GetBalanceParams defines query parameters for the balance endpoint.
type GetBalanceParams struct {
	WithStatement bool `form:"with_statement,default=true"`
}

// StatementResponse defines the wire shape of one statement. Field names are
// fixed for compatibility with existing consumers; sender_id carries the
// counterparty and is present on transfer rows only.
type StatementResponse struct {
	ID          string               `json:"id"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description"`
	Type        domain.OperationType `json:"type"`
	SenderID    *string              `json:"sender_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// BalanceResponse wraps a balance and, optionally, the statements it was
// reduced from.
type BalanceResponse struct {
	Statement []StatementResponse `json:"statement,omitempty"`
	Balance   decimal.Decimal     `json:"balance"`
}

// ToStatementResponse converts a domain.Statement to StatementResponse DTO
func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		ID:          s.StatementID,
		Amount:      s.Amount,
		Description: s.Description,
		Type:        s.Type,
		SenderID:    s.CounterpartyID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToBalanceResponse converts a balance and statement list to the wire DTO.
func ToBalanceResponse(balance decimal.Decimal, statements []domain.Statement) BalanceResponse {
	resp := BalanceResponse{Balance: balance}
	if statements != nil {
		resp.Statement = make([]StatementResponse, len(statements))
		for i := range statements {
			resp.Statement[i] = ToStatementResponse(&statements[i])
		}
	}
	return resp
}
