package services

import (
	"context"

	"github.com/finledger/finledger_backend/internal/core/domain"
	"github.com/finledger/finledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// StatementReaderSvc defines read operations over a user's ledger
type StatementReaderSvc interface {
	// GetBalance reduces the owner's statements into a signed balance. When
	// withStatements is true the reduced statement list is returned as well.
	GetBalance(ctx context.Context, ownerID string, withStatements bool) (decimal.Decimal, []domain.Statement, error)

	// GetStatementOperation retrieves one of the owner's statements by ID.
	GetStatementOperation(ctx context.Context, ownerID string, statementID string) (*domain.Statement, error)
}

// StatementWriterSvc defines operations that append to a user's ledger
type StatementWriterSvc interface {
	// CreateStatement records a deposit or withdrawal for the owner.
	CreateStatement(ctx context.Context, ownerID string, opType domain.OperationType, req dto.CreateStatementRequest) (*domain.Statement, error)

	// CreateTransfer moves funds from sender to receiver as an atomic pair of
	// statements.
	CreateTransfer(ctx context.Context, senderID string, receiverID string, req dto.CreateTransferRequest) error
}

// StatementSvcFacade combines all statement-related service interfaces
type StatementSvcFacade interface {
	StatementReaderSvc
	StatementWriterSvc
}
