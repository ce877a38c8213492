package pgsql

import (
	"context"
	"errors"

	"github.com/finledger/finledger_backend/internal/apperrors"
	"github.com/finledger/finledger_backend/internal/core/domain"
	portsrepo "github.com/finledger/finledger_backend/internal/core/ports/repositories"
	"github.com/finledger/finledger_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStatementRepository struct {
	BaseRepository
}

func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepositoryWithTx {
	return &PgxStatementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxStatementRepository implements portsrepo.StatementRepositoryWithTx
var _ portsrepo.StatementRepositoryWithTx = (*PgxStatementRepository)(nil)

const insertStatementQuery = `
	INSERT INTO statements (statement_id, owner_id, type, amount, description, sender_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`

// Helper to convert domain.Statement to models.Statement
func toModelStatement(d domain.Statement) models.Statement {
	return models.Statement{
		StatementID: d.StatementID,
		OwnerID:     d.OwnerID,
		Type:        string(d.Type),
		Amount:      d.Amount,
		Description: d.Description,
		SenderID:    d.CounterpartyID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Helper to convert models.Statement to domain.Statement
func toDomainStatement(m models.Statement) domain.Statement {
	return domain.Statement{
		StatementID:    m.StatementID,
		OwnerID:        m.OwnerID,
		Type:           domain.OperationType(m.Type),
		Amount:         m.Amount,
		Description:    m.Description,
		CounterpartyID: m.SenderID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// SaveStatement persists a single deposit or withdrawal row.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	m := toModelStatement(statement)
	_, err := r.Pool.Exec(ctx, insertStatementQuery,
		m.StatementID,
		m.OwnerID,
		m.Type,
		m.Amount,
		m.Description,
		m.SenderID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert statement "+m.StatementID, err)
	}
	return nil
}

// SaveTransferPair persists both rows of a transfer inside one database
// transaction: a crash between the inserts must never leave a credited
// receiver without the matching sender debit. The sender's user row is locked
// for the duration so concurrent transfer pairs for the same sender are
// applied one at a time.
func (r *PgxStatementRepository) SaveTransferPair(ctx context.Context, debit domain.Statement, credit domain.Statement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE;`
	var lockedID string
	if err := tx.QueryRow(ctx, lockQuery, debit.OwnerID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock sender row "+debit.OwnerID, err)
	}

	batch := &pgx.Batch{}
	for _, statement := range []domain.Statement{debit, credit} {
		m := toModelStatement(statement)
		batch.Queue(insertStatementQuery,
			m.StatementID,
			m.OwnerID,
			m.Type,
			m.Amount,
			m.Description,
			m.SenderID,
			m.CreatedAt,
			m.UpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transfer batch", err)
	}

	return r.Commit(ctx, tx)
}

// FindStatementByID retrieves a statement scoped to its owner. A statement
// owned by another user scans as no rows, which keeps foreign and missing
// statements indistinguishable.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string, ownerID string) (*domain.Statement, error) {
	query := `
		SELECT statement_id, owner_id, type, amount, description, sender_id, created_at, updated_at
		FROM statements
		WHERE statement_id = $1 AND owner_id = $2;
	`
	var m models.Statement
	err := r.Pool.QueryRow(ctx, query, statementID, ownerID).Scan(
		&m.StatementID,
		&m.OwnerID,
		&m.Type,
		&m.Amount,
		&m.Description,
		&m.SenderID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find statement by ID "+statementID, err)
	}

	statement := toDomainStatement(m)
	return &statement, nil
}

// ListStatementsByOwner retrieves all of a user's statements in creation order.
func (r *PgxStatementRepository) ListStatementsByOwner(ctx context.Context, ownerID string) ([]domain.Statement, error) {
	query := `
		SELECT statement_id, owner_id, type, amount, description, sender_id, created_at, updated_at
		FROM statements
		WHERE owner_id = $1
		ORDER BY created_at, statement_id;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query statements for owner "+ownerID, err)
	}
	defer rows.Close()

	statements := []domain.Statement{}
	for rows.Next() {
		var m models.Statement
		err := rows.Scan(
			&m.StatementID,
			&m.OwnerID,
			&m.Type,
			&m.Amount,
			&m.Description,
			&m.SenderID,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan statement row for owner "+ownerID, err)
		}
		statements = append(statements, toDomainStatement(m))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating statement rows for owner "+ownerID, err)
	}

	return statements, nil
}
