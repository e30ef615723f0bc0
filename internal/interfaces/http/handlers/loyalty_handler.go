package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/response"
	"github.com/ParvPasricha/loyalty-system/internal/usecases"
)

// LoyaltyHandler handles earn, adjust, balance and ledger endpoints
type LoyaltyHandler struct {
	ledgerUsecase *usecases.LedgerUsecase
}

// NewLoyaltyHandler creates a new loyalty handler
func NewLoyaltyHandler(ledgerUsecase *usecases.LedgerUsecase) *LoyaltyHandler {
	return &LoyaltyHandler{
		ledgerUsecase: ledgerUsecase,
	}
}

// Earn credits points for a purchase
// POST /api/v1/loyalty/earn
func (h *LoyaltyHandler) Earn(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.EarnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.ledgerUsecase.Earn(c.Request.Context(), merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	// a replay answers 200, a fresh credit 201
	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// Adjust applies an owner-only manual correction
// POST /api/v1/loyalty/adjust
func (h *LoyaltyHandler) Adjust(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.AdjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	var actorID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		actorID = &userID
	}

	result, err := h.ledgerUsecase.Adjust(c.Request.Context(), merchantID, actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// Balance returns a customer's derived balance
// GET /api/v1/customers/:id/balance
func (h *LoyaltyHandler) Balance(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid customer id"))
		return
	}

	balance, err := h.ledgerUsecase.GetBalance(c.Request.Context(), merchantID, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"customerId": customerID,
		"balance":    balance,
	})
}

// Ledger lists a customer's entries, newest first
// GET /api/v1/customers/:id/ledger
func (h *LoyaltyHandler) Ledger(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid customer id"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.ledgerUsecase.ListLedger(c.Request.Context(), merchantID, customerID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}
