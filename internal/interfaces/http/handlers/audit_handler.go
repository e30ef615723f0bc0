package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	"github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/response"
	"github.com/ParvPasricha/loyalty-system/pkg/utils"
)

// AuditHandler exposes the merchant's audit trail
type AuditHandler struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditRepo repositories.AuditLogRepository) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
	}
}

// List returns the merchant's audit records, newest first
// GET /api/v1/audit-logs?page=1&limit=50
func (h *AuditHandler) List(c *gin.Context) {
	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	logs, err := h.auditRepo.ListByMerchant(c.Request.Context(), merchantID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	total, err := h.auditRepo.CountByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"logs": logs,
		"meta": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}
