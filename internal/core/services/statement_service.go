package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger_backend/internal/apperrors"
	"github.com/finledger/finledger_backend/internal/core/domain"
	portsrepo "github.com/finledger/finledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finledger/finledger_backend/internal/core/ports/services"
	"github.com/finledger/finledger_backend/internal/dto"
	"github.com/finledger/finledger_backend/internal/middleware"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("you can't transfer to yourself")
	ErrStatementNotFound = errors.New("statement not found")
)

// statementService provides the ledger operations: deposits, withdrawals,
// transfers, balance queries and single-statement lookups.
//
// Balance-check-then-insert must not interleave for the same owner, or two
// concurrent withdrawals could both observe sufficient funds and overdraw the
// account. The service serializes the critical section with one mutex per
// owner; transfers take the sender's and receiver's locks in ID order so two
// opposing transfers cannot deadlock.
type statementService struct {
	statementRepo portsrepo.StatementRepositoryFacade
	userSvc       portssvc.UserReaderSvc

	muMap map[string]*sync.Mutex // one lock per owner ID
	mapMu sync.Mutex             // protects muMap itself
}

// NewStatementService creates a new StatementService.
func NewStatementService(statementRepo portsrepo.StatementRepositoryFacade, userSvc portssvc.UserReaderSvc) portssvc.StatementSvcFacade {
	return &statementService{
		statementRepo: statementRepo,
		userSvc:       userSvc,
		muMap:         make(map[string]*sync.Mutex),
	}
}

// Ensure statementService implements the portssvc.StatementSvcFacade interface
var _ portssvc.StatementSvcFacade = (*statementService)(nil)

func (s *statementService) ownerLock(ownerID string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, exists := s.muMap[ownerID]; !exists {
		s.muMap[ownerID] = &sync.Mutex{}
	}
	return s.muMap[ownerID]
}

func (s *statementService) assertUserExists(ctx context.Context, userID string, role string) error {
	if _, err := s.userSvc.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %s %s", ErrUserNotFound, role, userID)
		}
		return fmt.Errorf("failed to look up %s %s: %w", role, userID, err)
	}
	return nil
}

// balanceOf reduces the owner's statements into a balance. Callers that need
// the check-then-insert guarantee must hold the owner's lock.
func (s *statementService) balanceOf(ctx context.Context, ownerID string) (decimal.Decimal, []domain.Statement, error) {
	statements, err := s.statementRepo.ListStatementsByOwner(ctx, ownerID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to list statements for %s: %w", ownerID, err)
	}
	return domain.CalculateBalance(ownerID, statements), statements, nil
}

// CreateStatement records a deposit or withdrawal for the owner. Withdrawals
// reject only when the balance is strictly below the amount; draining to
// exactly zero succeeds.
// Implements portssvc.StatementSvcFacade
func (s *statementService) CreateStatement(ctx context.Context, ownerID string, opType domain.OperationType, req dto.CreateStatementRequest) (*domain.Statement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Transfer rows are only ever written by CreateTransfer.
	if !opType.Valid() || opType == domain.Transfer {
		return nil, fmt.Errorf("%w: type must be DEPOSIT or WITHDRAW", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	if err := s.assertUserExists(ctx, ownerID, "user"); err != nil {
		return nil, err
	}

	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	if opType == domain.Withdraw {
		balance, _, err := s.balanceOf(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if balance.LessThan(req.Amount) {
			logger.Warn("Withdrawal rejected for insufficient funds",
				slog.String("owner_id", ownerID),
				slog.String("balance", balance.String()),
				slog.String("amount", req.Amount.String()),
			)
			return nil, ErrInsufficientFunds
		}
	}

	now := time.Now().UTC()
	statement := domain.Statement{
		StatementID: uuid.NewString(),
		OwnerID:     ownerID,
		Type:        opType,
		Amount:      req.Amount,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.statementRepo.SaveStatement(ctx, statement); err != nil {
		logger.Error("Failed to save statement", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	logger.Info("Statement created successfully",
		slog.String("statement_id", statement.StatementID),
		slog.String("type", string(opType)),
	)
	return &statement, nil
}

// CreateTransfer moves funds from sender to receiver. Validation order is
// fixed: self-transfer first (a cheap identity comparison), then sender and
// receiver existence, then funds. Both rows of the pair carry the sender's ID
// as counterparty and are persisted atomically by the repository.
// Implements portssvc.StatementSvcFacade
func (s *statementService) CreateTransfer(ctx context.Context, senderID string, receiverID string, req dto.CreateTransferRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if senderID == receiverID {
		return ErrSelfTransfer
	}
	if err := s.assertUserExists(ctx, senderID, "sender"); err != nil {
		return err
	}
	if err := s.assertUserExists(ctx, receiverID, "receiver"); err != nil {
		return err
	}

	senderLock := s.ownerLock(senderID)
	receiverLock := s.ownerLock(receiverID)

	// Lock in ID order to avoid deadlocks between opposing transfers.
	if senderID < receiverID {
		senderLock.Lock()
		receiverLock.Lock()
	} else {
		receiverLock.Lock()
		senderLock.Lock()
	}
	defer senderLock.Unlock()
	defer receiverLock.Unlock()

	balance, _, err := s.balanceOf(ctx, senderID)
	if err != nil {
		return err
	}
	if balance.LessThan(req.Amount) {
		logger.Warn("Transfer rejected for insufficient funds",
			slog.String("sender_id", senderID),
			slog.String("balance", balance.String()),
			slog.String("amount", req.Amount.String()),
		)
		return ErrInsufficientFunds
	}

	now := time.Now().UTC()
	counterparty := senderID
	debit := domain.Statement{
		StatementID:    uuid.NewString(),
		OwnerID:        senderID,
		Type:           domain.Transfer,
		Amount:         req.Amount,
		Description:    req.Description,
		CounterpartyID: &counterparty,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	credit := domain.Statement{
		StatementID:    uuid.NewString(),
		OwnerID:        receiverID,
		Type:           domain.Transfer,
		Amount:         req.Amount,
		Description:    req.Description,
		CounterpartyID: &counterparty,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.statementRepo.SaveTransferPair(ctx, debit, credit); err != nil {
		logger.Error("Failed to save transfer pair", slog.String("error", err.Error()), slog.String("sender_id", senderID))
		return fmt.Errorf("failed to save transfer: %w", err)
	}

	logger.Info("Transfer created successfully",
		slog.String("sender_id", senderID),
		slog.String("receiver_id", receiverID),
		slog.String("amount", req.Amount.String()),
	)
	return nil
}

// GetBalance reduces the owner's statements into a signed balance.
// Implements portssvc.StatementSvcFacade
func (s *statementService) GetBalance(ctx context.Context, ownerID string, withStatements bool) (decimal.Decimal, []domain.Statement, error) {
	if err := s.assertUserExists(ctx, ownerID, "user"); err != nil {
		return decimal.Zero, nil, err
	}

	balance, statements, err := s.balanceOf(ctx, ownerID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if !withStatements {
		statements = nil
	}
	return balance, statements, nil
}

// GetStatementOperation retrieves one of the owner's statements. A statement
// owned by another user is reported as not found.
// Implements portssvc.StatementSvcFacade
func (s *statementService) GetStatementOperation(ctx context.Context, ownerID string, statementID string) (*domain.Statement, error) {
	if err := s.assertUserExists(ctx, ownerID, "user"); err != nil {
		return nil, err
	}

	statement, err := s.statementRepo.FindStatementByID(ctx, statementID, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrStatementNotFound
		}
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	return statement, nil
}
