package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finledger/finledger_backend/internal/apperrors"
	"github.com/finledger/finledger_backend/internal/core/domain"
)

func newStatement(ownerID string, opType domain.OperationType, amount int64) domain.Statement {
	return domain.Statement{
		StatementID: uuid.NewString(),
		OwnerID:     ownerID,
		Type:        opType,
		Amount:      decimal.NewFromInt(amount),
		Description: "test",
	}
}

func TestStatementRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewStatementRepository()

	ownerID := uuid.NewString()
	otherID := uuid.NewString()
	statement := newStatement(ownerID, domain.Deposit, 100)
	require.NoError(t, repo.SaveStatement(ctx, statement))

	found, err := repo.FindStatementByID(ctx, statement.StatementID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, statement.StatementID, found.StatementID)

	// The same ID under another owner is reported as not found.
	_, err = repo.FindStatementByID(ctx, statement.StatementID, otherID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStatementRepository_ListPreservesCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewStatementRepository()

	ownerID := uuid.NewString()
	first := newStatement(ownerID, domain.Deposit, 900)
	second := newStatement(ownerID, domain.Withdraw, 250)
	require.NoError(t, repo.SaveStatement(ctx, first))
	require.NoError(t, repo.SaveStatement(ctx, second))
	require.NoError(t, repo.SaveStatement(ctx, newStatement(uuid.NewString(), domain.Deposit, 1)))

	statements, err := repo.ListStatementsByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, statements, 2)
	assert.Equal(t, first.StatementID, statements[0].StatementID)
	assert.Equal(t, second.StatementID, statements[1].StatementID)
}

func TestStatementRepository_SaveTransferPair(t *testing.T) {
	ctx := context.Background()
	repo := NewStatementRepository()

	senderID := uuid.NewString()
	receiverID := uuid.NewString()
	debit := newStatement(senderID, domain.Transfer, 150)
	debit.CounterpartyID = &senderID
	credit := newStatement(receiverID, domain.Transfer, 150)
	credit.CounterpartyID = &senderID

	require.NoError(t, repo.SaveTransferPair(ctx, debit, credit))

	senderRows, err := repo.ListStatementsByOwner(ctx, senderID)
	require.NoError(t, err)
	receiverRows, err := repo.ListStatementsByOwner(ctx, receiverID)
	require.NoError(t, err)
	require.Len(t, senderRows, 1)
	require.Len(t, receiverRows, 1)
	require.NotNil(t, receiverRows[0].CounterpartyID)
	assert.Equal(t, senderID, *receiverRows[0].CounterpartyID)
}
