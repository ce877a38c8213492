package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/finledger/finledger_backend/internal/apperrors"
	"github.com/finledger/finledger_backend/internal/core/domain"
	portssvc "github.com/finledger/finledger_backend/internal/core/ports/services"
	"github.com/finledger/finledger_backend/internal/core/services"
	"github.com/finledger/finledger_backend/internal/dto"
	"github.com/finledger/finledger_backend/internal/repositories/memory"
)

// StatementServiceTestSuite wires the statement service against the in-memory
// repositories, so the balance-check-then-insert path runs for real instead of
// against mocks.
type StatementServiceTestSuite struct {
	suite.Suite
	userRepo      *memory.UserRepository
	statementRepo *memory.StatementRepository
	userSvc       portssvc.UserSvcFacade
	service       portssvc.StatementSvcFacade
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.userRepo = memory.NewUserRepository()
	suite.statementRepo = memory.NewStatementRepository()
	suite.userSvc = services.NewUserService(suite.userRepo)
	suite.service = services.NewStatementService(suite.statementRepo, suite.userSvc)
}

func (suite *StatementServiceTestSuite) createUser(name, email string) string {
	user, err := suite.userSvc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	suite.Require().NoError(err)
	return user.UserID
}

func (suite *StatementServiceTestSuite) deposit(ownerID string, amount string) {
	_, err := suite.service.CreateStatement(context.Background(), ownerID, domain.Deposit, dto.CreateStatementRequest{
		Amount:      decimal.RequireFromString(amount),
		Description: "deposit",
	})
	suite.Require().NoError(err)
}

func (suite *StatementServiceTestSuite) balance(ownerID string) decimal.Decimal {
	balance, _, err := suite.service.GetBalance(context.Background(), ownerID, false)
	suite.Require().NoError(err)
	return balance
}

// --- CreateStatement Tests ---
func (suite *StatementServiceTestSuite) TestCreateStatement_Deposit() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")

	statement, err := suite.service.CreateStatement(ctx, ownerID, domain.Deposit, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(900),
		Description: "salary",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(statement)
	suite.NotEmpty(statement.StatementID)
	suite.Equal(ownerID, statement.OwnerID)
	suite.Equal(domain.Deposit, statement.Type)
	suite.Nil(statement.CounterpartyID)
	suite.True(suite.balance(ownerID).Equal(decimal.NewFromInt(900)))
}

func (suite *StatementServiceTestSuite) TestCreateStatement_RejectsTransferType() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")

	_, err := suite.service.CreateStatement(ctx, ownerID, domain.Transfer, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(10),
		Description: "bogus",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StatementServiceTestSuite) TestCreateStatement_RejectsNonPositiveAmount() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := suite.service.CreateStatement(ctx, ownerID, domain.Deposit, dto.CreateStatementRequest{
			Amount:      amount,
			Description: "bogus",
		})
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
}

func (suite *StatementServiceTestSuite) TestCreateStatement_UnknownUser() {
	ctx := context.Background()

	_, err := suite.service.CreateStatement(ctx, "no-such-user", domain.Deposit, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(10),
		Description: "ghost",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUserNotFound)
}

func (suite *StatementServiceTestSuite) TestCreateStatement_WithdrawExactDrain() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")
	suite.deposit(ownerID, "250")

	// Withdrawing the full balance is allowed; only going below zero is not.
	_, err := suite.service.CreateStatement(ctx, ownerID, domain.Withdraw, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(250),
		Description: "drain",
	})

	suite.Require().NoError(err)
	suite.True(suite.balance(ownerID).IsZero())
}

func (suite *StatementServiceTestSuite) TestCreateStatement_WithdrawInsufficientFunds() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")
	suite.deposit(ownerID, "250")

	_, err := suite.service.CreateStatement(ctx, ownerID, domain.Withdraw, dto.CreateStatementRequest{
		Amount:      decimal.RequireFromString("250.01"),
		Description: "overdraw",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInsufficientFunds)
	suite.True(suite.balance(ownerID).Equal(decimal.NewFromInt(250)))
}

// --- CreateTransfer Tests ---
func (suite *StatementServiceTestSuite) TestCreateTransfer_Success() {
	ctx := context.Background()
	senderID := suite.createUser("Dana", "dana@example.com")
	receiverID := suite.createUser("Riley", "riley@example.com")
	suite.deposit(senderID, "900")

	err := suite.service.CreateTransfer(ctx, senderID, receiverID, dto.CreateTransferRequest{
		Amount:      decimal.NewFromInt(150),
		Description: "rent split",
	})

	suite.Require().NoError(err)
	suite.True(suite.balance(senderID).Equal(decimal.NewFromInt(750)))
	suite.True(suite.balance(receiverID).Equal(decimal.NewFromInt(150)))

	// Both rows of the pair carry the sender's ID as counterparty.
	_, senderRows, err := suite.service.GetBalance(ctx, senderID, true)
	suite.Require().NoError(err)
	_, receiverRows, err := suite.service.GetBalance(ctx, receiverID, true)
	suite.Require().NoError(err)
	suite.Require().Len(receiverRows, 1)
	suite.Require().NotNil(receiverRows[0].CounterpartyID)
	suite.Equal(senderID, *receiverRows[0].CounterpartyID)
	suite.False(receiverRows[0].IsSenderSide())
	debit := senderRows[len(senderRows)-1]
	suite.Equal(domain.Transfer, debit.Type)
	suite.Require().NotNil(debit.CounterpartyID)
	suite.Equal(senderID, *debit.CounterpartyID)
	suite.True(debit.IsSenderSide())
}

func (suite *StatementServiceTestSuite) TestCreateTransfer_SelfTransfer() {
	ctx := context.Background()
	senderID := suite.createUser("Dana", "dana@example.com")
	suite.deposit(senderID, "100")

	err := suite.service.CreateTransfer(ctx, senderID, senderID, dto.CreateTransferRequest{
		Amount:      decimal.NewFromInt(10),
		Description: "to myself",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSelfTransfer)
	suite.True(suite.balance(senderID).Equal(decimal.NewFromInt(100)))
}

func (suite *StatementServiceTestSuite) TestCreateTransfer_SelfTransferBeforeExistence() {
	ctx := context.Background()

	// Even an unknown sender hits the self-transfer check first.
	err := suite.service.CreateTransfer(ctx, "ghost", "ghost", dto.CreateTransferRequest{
		Amount:      decimal.NewFromInt(10),
		Description: "to myself",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSelfTransfer)
}

func (suite *StatementServiceTestSuite) TestCreateTransfer_UnknownReceiver() {
	ctx := context.Background()
	senderID := suite.createUser("Dana", "dana@example.com")
	suite.deposit(senderID, "900")

	err := suite.service.CreateTransfer(ctx, senderID, "no-such-user", dto.CreateTransferRequest{
		Amount:      decimal.NewFromInt(150),
		Description: "into the void",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUserNotFound)
	// No partial write: the sender keeps the full balance.
	suite.True(suite.balance(senderID).Equal(decimal.NewFromInt(900)))
}

func (suite *StatementServiceTestSuite) TestCreateTransfer_InsufficientFunds() {
	ctx := context.Background()
	senderID := suite.createUser("Dana", "dana@example.com")
	receiverID := suite.createUser("Riley", "riley@example.com")
	suite.deposit(senderID, "100")

	err := suite.service.CreateTransfer(ctx, senderID, receiverID, dto.CreateTransferRequest{
		Amount:      decimal.NewFromInt(101),
		Description: "too much",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInsufficientFunds)
	suite.True(suite.balance(senderID).Equal(decimal.NewFromInt(100)))
	suite.True(suite.balance(receiverID).IsZero())
}

// --- GetBalance Tests ---
func (suite *StatementServiceTestSuite) TestGetBalance_DepositWithdrawTransfer() {
	ctx := context.Background()
	senderID := suite.createUser("Dana", "dana@example.com")
	receiverID := suite.createUser("Riley", "riley@example.com")

	suite.deposit(senderID, "900")
	_, err := suite.service.CreateStatement(ctx, senderID, domain.Withdraw, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(250),
		Description: "groceries",
	})
	suite.Require().NoError(err)
	err = suite.service.CreateTransfer(ctx, senderID, receiverID, dto.CreateTransferRequest{
		Amount:      decimal.NewFromInt(150),
		Description: "rent split",
	})
	suite.Require().NoError(err)

	balance, statements, err := suite.service.GetBalance(ctx, senderID, true)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(500)))
	suite.Len(statements, 3)

	balance, statements, err = suite.service.GetBalance(ctx, senderID, false)
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(500)))
	suite.Nil(statements)
}

func (suite *StatementServiceTestSuite) TestGetBalance_UnknownUser() {
	_, _, err := suite.service.GetBalance(context.Background(), "no-such-user", true)
	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUserNotFound)
}

// --- GetStatementOperation Tests ---
func (suite *StatementServiceTestSuite) TestGetStatementOperation_Success() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")
	statement, err := suite.service.CreateStatement(ctx, ownerID, domain.Deposit, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(42),
		Description: "found money",
	})
	suite.Require().NoError(err)

	found, err := suite.service.GetStatementOperation(ctx, ownerID, statement.StatementID)
	suite.Require().NoError(err)
	suite.Equal(statement.StatementID, found.StatementID)
	suite.True(found.Amount.Equal(decimal.NewFromInt(42)))
}

func (suite *StatementServiceTestSuite) TestGetStatementOperation_ForeignStatement() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")
	otherID := suite.createUser("Riley", "riley@example.com")
	statement, err := suite.service.CreateStatement(ctx, ownerID, domain.Deposit, dto.CreateStatementRequest{
		Amount:      decimal.NewFromInt(42),
		Description: "found money",
	})
	suite.Require().NoError(err)

	// Another user's statement looks exactly like a missing one.
	found, err := suite.service.GetStatementOperation(ctx, otherID, statement.StatementID)
	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, services.ErrStatementNotFound)
}

// --- Concurrency Tests ---
func (suite *StatementServiceTestSuite) TestCreateStatement_ConcurrentWithdrawals() {
	ctx := context.Background()
	ownerID := suite.createUser("Dana", "dana@example.com")
	suite.deposit(ownerID, "100")

	// Two withdrawals of the full balance race; exactly one may win.
	amount := decimal.NewFromInt(100)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.service.CreateStatement(ctx, ownerID, domain.Withdraw, dto.CreateStatementRequest{
				Amount:      amount,
				Description: "race",
			})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, services.ErrInsufficientFunds)
			failed++
		}
	}
	suite.Equal(1, succeeded)
	suite.Equal(1, failed)
	suite.True(suite.balance(ownerID).IsZero())
}

func (suite *StatementServiceTestSuite) TestCreateTransfer_OpposingTransfersDoNotDeadlock() {
	ctx := context.Background()
	aID := suite.createUser("Dana", "dana@example.com")
	bID := suite.createUser("Riley", "riley@example.com")
	suite.deposit(aID, "100")
	suite.deposit(bID, "100")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = suite.service.CreateTransfer(ctx, aID, bID, dto.CreateTransferRequest{
				Amount:      decimal.NewFromInt(1),
				Description: "ping",
			})
		}()
		go func() {
			defer wg.Done()
			_ = suite.service.CreateTransfer(ctx, bID, aID, dto.CreateTransferRequest{
				Amount:      decimal.NewFromInt(1),
				Description: "pong",
			})
		}()
	}
	wg.Wait()

	// Transfers only move money between the two, so the total is conserved.
	total := suite.balance(aID).Add(suite.balance(bID))
	suite.True(total.Equal(decimal.NewFromInt(200)))
	suite.True(suite.balance(aID).GreaterThanOrEqual(decimal.Zero))
	suite.True(suite.balance(bID).GreaterThanOrEqual(decimal.Zero))
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
