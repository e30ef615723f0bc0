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

// RewardHandler handles reward catalog and redemption endpoints
type RewardHandler struct {
	redemptionUsecase *usecases.RedemptionUsecase
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(redemptionUsecase *usecases.RedemptionUsecase) *RewardHandler {
	return &RewardHandler{
		redemptionUsecase: redemptionUsecase,
	}
}

func actorFromContext(c *gin.Context) *uuid.UUID {
	if userID, ok := middleware.GetUserID(c); ok {
		return &userID
	}
	return nil
}

// Create registers a reward
// POST /api/v1/rewards
func (h *RewardHandler) Create(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.RewardCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	reward, err := h.redemptionUsecase.CreateReward(c.Request.Context(), merchantID, actorFromContext(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, reward)
}

// List returns the merchant's rewards; ?active=true filters to the catalog
// GET /api/v1/rewards
func (h *RewardHandler) List(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	activeOnly := c.Query("active") == "true"
	rewards, err := h.redemptionUsecase.ListRewards(c.Request.Context(), merchantID, activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rewards": rewards})
}

// Deactivate retires a reward from the catalog
// POST /api/v1/rewards/:id/deactivate
func (h *RewardHandler) Deactivate(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid reward id"))
		return
	}

	if err := h.redemptionUsecase.DeactivateReward(c.Request.Context(), merchantID, rewardID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "deactivated"})
}

// Redeem spends points on a reward
// POST /api/v1/loyalty/redeem
func (h *RewardHandler) Redeem(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.redemptionUsecase.Redeem(c.Request.Context(), merchantID, actorFromContext(c), &input)
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

// Reverse undoes a redemption and credits the points back
// POST /api/v1/redemptions/:id/reverse
func (h *RewardHandler) Reverse(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	redemptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid redemption id"))
		return
	}

	var input struct {
		IdempotencyKey string `json:"idempotencyKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.redemptionUsecase.Reverse(c.Request.Context(), merchantID, actorFromContext(c), redemptionID, input.IdempotencyKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
