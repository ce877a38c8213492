package repositories

import (
	"context"

	"github.com/finledger/finledger_backend/internal/core/domain"
)

// StatementReader defines read operations for statement data
type StatementReader interface {
	// FindStatementByID retrieves a statement by ID, scoped to its owner.
	// A statement that exists but belongs to another user is reported as not
	// found, never as a permission error.
	FindStatementByID(ctx context.Context, statementID string, ownerID string) (*domain.Statement, error)

	// ListStatementsByOwner retrieves all of a user's statements in creation order.
	ListStatementsByOwner(ctx context.Context, ownerID string) ([]domain.Statement, error)
}

// StatementWriter defines write operations for statement data
type StatementWriter interface {
	// SaveStatement persists a single deposit or withdrawal statement.
	SaveStatement(ctx context.Context, statement domain.Statement) error

	// SaveTransferPair persists the sender-side and receiver-side rows of a
	// transfer atomically: either both become visible or neither does.
	SaveTransferPair(ctx context.Context, debit domain.Statement, credit domain.Statement) error
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}

// StatementRepositoryWithTx extends StatementRepositoryFacade with transaction capabilities
type StatementRepositoryWithTx interface {
	StatementRepositoryFacade
	TransactionManager
}
