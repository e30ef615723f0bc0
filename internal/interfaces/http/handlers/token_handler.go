package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/response"
	"github.com/ParvPasricha/loyalty-system/internal/usecases"
)

// TokenHandler handles credential endpoints
type TokenHandler struct {
	tokenUsecase *usecases.TokenUsecase
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenUsecase *usecases.TokenUsecase) *TokenHandler {
	return &TokenHandler{
		tokenUsecase: tokenUsecase,
	}
}

// Issue mints a credential, creating an anonymous customer when none is given
// POST /api/v1/tokens
func (h *TokenHandler) Issue(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.TokenIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	token, err := h.tokenUsecase.IssueToken(c.Request.Context(), merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, token)
}

// Resolve maps a presented public value to the customer and their balance
// POST /api/v1/tokens/resolve
func (h *TokenHandler) Resolve(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.TokenResolveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.tokenUsecase.ResolveToken(c.Request.Context(), merchantID, input.PublicValue)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Revoke permanently deactivates a credential
// POST /api/v1/tokens/:id/revoke
func (h *TokenHandler) Revoke(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid token id"))
		return
	}

	var actorID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		actorID = &userID
	}

	if err := h.tokenUsecase.RevokeToken(c.Request.Context(), merchantID, actorID, tokenID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "revoked"})
}

// ListByCustomer lists a customer's credentials
// GET /api/v1/customers/:id/tokens
func (h *TokenHandler) ListByCustomer(c *gin.Context) {
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

	tokens, err := h.tokenUsecase.ListTokens(c.Request.Context(), merchantID, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tokens": tokens})
}

// CreateWalletClaim prepares linking a wallet pass to a customer
// POST /api/v1/customers/:id/wallet-claim
func (h *TokenHandler) CreateWalletClaim(c *gin.Context) {
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

	code, err := h.tokenUsecase.CreateWalletClaim(c.Request.Context(), merchantID, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"code": code})
}

// ClaimWalletPass consumes a claim code and issues a wallet token
// POST /api/v1/tokens/wallet-claim
func (h *TokenHandler) ClaimWalletPass(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.WalletClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	token, err := h.tokenUsecase.ClaimWalletPass(c.Request.Context(), merchantID, input.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, token)
}
