package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finledger/finledger_backend/internal/core/domain"
	portssvc "github.com/finledger/finledger_backend/internal/core/ports/services"
	"github.com/finledger/finledger_backend/internal/dto"
	"github.com/finledger/finledger_backend/internal/middleware"
)

// statementHandler handles HTTP requests for the ledger: deposits,
// withdrawals, transfers, balance queries and statement lookups.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{
		statementService: ss,
	}
}

// RegisterStatementRoutes registers the authenticated ledger routes.
func RegisterStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	statements := rg.Group("/statements")
	{
		statements.GET("/balance", h.getBalance)
		statements.POST("/deposit", h.createDeposit)
		statements.POST("/withdraw", h.createWithdraw)
		statements.GET("/:statement_id", h.getStatement)
		statements.POST("/transfers/:user_id", h.createTransfer)
	}
}

// getBalance godoc
// @Summary Get the authenticated user's balance
// @Description Reduces the user's statements into a balance. Pass with_statement=false to omit the statement list.
// @Tags statements
// @Produce json
// @Param with_statement query bool false "Include the statement list" default(true)
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/balance [get]
func (h *statementHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.GetBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	balance, statements, err := h.statementService.GetBalance(c.Request.Context(), userID, params.WithStatement)
	if err != nil {
		logger.Error("Failed to get balance", slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance, statements))
}

// createDeposit godoc
// @Summary Record a deposit
// @Description Appends a deposit statement to the authenticated user's ledger.
// @Tags statements
// @Accept json
// @Produce json
// @Param deposit body dto.CreateStatementRequest true "Deposit details"
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/deposit [post]
func (h *statementHandler) createDeposit(c *gin.Context) {
	h.createStatement(c, domain.Deposit)
}

// createWithdraw godoc
// @Summary Record a withdrawal
// @Description Appends a withdrawal statement to the authenticated user's ledger. Rejected when the balance is below the amount.
// @Tags statements
// @Accept json
// @Produce json
// @Param withdraw body dto.CreateStatementRequest true "Withdrawal details"
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/withdraw [post]
func (h *statementHandler) createWithdraw(c *gin.Context) {
	h.createStatement(c, domain.Withdraw)
}

func (h *statementHandler) createStatement(c *gin.Context, opType domain.OperationType) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	statement, err := h.statementService.CreateStatement(c.Request.Context(), userID, opType, req)
	if err != nil {
		logger.Error("Failed to create statement",
			slog.String("error", err.Error()),
			slog.String("type", string(opType)),
		)
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStatementResponse(statement))
}

// getStatement godoc
// @Summary Get one statement
// @Description Returns a single statement from the authenticated user's ledger. Statements of other users are reported as not found.
// @Tags statements
// @Produce json
// @Param statement_id path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statement_id} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	statementID := c.Param("statement_id")
	statement, err := h.statementService.GetStatementOperation(c.Request.Context(), userID, statementID)
	if err != nil {
		logger.Warn("Failed to fetch statement",
			slog.String("error", err.Error()),
			slog.String("statement_id", statementID),
		)
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// createTransfer godoc
// @Summary Transfer funds to another user
// @Description Moves funds from the authenticated user to the user in the path, recording one statement on each side.
// @Tags statements
// @Accept json
// @Produce json
// @Param user_id path string true "Receiver user ID"
// @Param transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 "Created"
// @Failure 400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Sender or receiver not found"
// @Security BearerAuth
// @Router /statements/transfers/{user_id} [post]
func (h *statementHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	senderID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	receiverID := c.Param("user_id")

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.statementService.CreateTransfer(c.Request.Context(), senderID, receiverID, req); err != nil {
		logger.Error("Failed to create transfer",
			slog.String("error", err.Error()),
			slog.String("receiver_id", receiverID),
		)
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}
