package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/response"
	"github.com/ParvPasricha/loyalty-system/internal/usecases"
)

// RulesHandler handles rule-version endpoints
type RulesHandler struct {
	rulesUsecase *usecases.RulesUsecase
}

// NewRulesHandler creates a new rules handler
func NewRulesHandler(rulesUsecase *usecases.RulesUsecase) *RulesHandler {
	return &RulesHandler{
		rulesUsecase: rulesUsecase,
	}
}

// Create appends a new rule version
// POST /api/v1/rules
func (h *RulesHandler) Create(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.RuleVersionCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	var actorID *uuid.UUID
	if userID, ok := middleware.GetUserID(c); ok {
		actorID = &userID
	}

	rule, err := h.rulesUsecase.CreateRuleVersion(c.Request.Context(), merchantID, actorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rule)
}

// List returns every rule version for the merchant
// GET /api/v1/rules
func (h *RulesHandler) List(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	versions, err := h.rulesUsecase.ListRuleVersions(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"versions": versions})
}

// Active returns the rule version in effect now, or at ?asOf=RFC3339
// GET /api/v1/rules/active
func (h *RulesHandler) Active(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("asOf must be RFC3339"))
			return
		}
		asOf = parsed
	}

	rule, err := h.rulesUsecase.ResolveActiveRule(c.Request.Context(), merchantID, asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, rule)
}
