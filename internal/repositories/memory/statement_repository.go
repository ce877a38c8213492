package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/finledger/finledger_backend/internal/apperrors"
	"github.com/finledger/finledger_backend/internal/core/domain"
	"github.com/finledger/finledger_backend/internal/core/ports/repositories"
)

// StatementRepository is a mutex-guarded in-memory implementation of
// repositories.StatementRepositoryFacade. Statements are kept in append
// order, so listing preserves creation order without an explicit sort.
type StatementRepository struct {
	mu         sync.RWMutex
	statements []domain.Statement
}

var _ repositories.StatementRepositoryFacade = (*StatementRepository)(nil)

// NewStatementRepository creates an empty in-memory statement repository.
func NewStatementRepository() *StatementRepository {
	return &StatementRepository{}
}

// SaveStatement persists a single deposit or withdrawal statement.
func (r *StatementRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statements = append(r.statements, statement)
	return nil
}

// SaveTransferPair persists both sides of a transfer under a single lock
// acquisition, so no reader ever observes one leg without the other.
func (r *StatementRepository) SaveTransferPair(ctx context.Context, debit domain.Statement, credit domain.Statement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.statements = append(r.statements, debit, credit)
	return nil
}

// FindStatementByID retrieves a statement by ID, scoped to its owner.
func (r *StatementRepository) FindStatementByID(ctx context.Context, statementID string, ownerID string) (*domain.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.statements {
		if r.statements[i].StatementID == statementID && r.statements[i].OwnerID == ownerID {
			statement := r.statements[i]
			return &statement, nil
		}
	}
	return nil, fmt.Errorf("%w: statement %s", apperrors.ErrNotFound, statementID)
}

// ListStatementsByOwner retrieves all of a user's statements in creation order.
func (r *StatementRepository) ListStatementsByOwner(ctx context.Context, ownerID string) ([]domain.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Statement
	for i := range r.statements {
		if r.statements[i].OwnerID == ownerID {
			result = append(result, r.statements[i])
		}
	}
	return result, nil
}
