package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
)

// listTipHistory handles GET /tip-history
// @Summary List tip transactions
// @Description List a tenant's tip transactions, newest first
// @Tags tip-history
// @Produce json
// @Param tenant_id query string true "Tenant id" example:"biz_123"
// @Param limit query int false "Page size (max 200)" example:"50"
// @Param offset query int false "Offset" example:"0"
// @Success 200 {object} dto.TipHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-history [get]
func (h *Handler) listTipHistory(c *gin.Context) {
	var req dto.ListTipHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, "Invalid tip history request", err)
		return
	}

	resp, err := h.tipService.ListHistory(c.Request.Context(), &req)
	if err != nil {
		h.serviceError(c, "Failed to list tip history", err, zap.String("tenant_id", req.TenantID))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// createTipTransaction handles POST /tip-history
// @Summary Record a tip transaction
// @Description Record a transaction unless one already exists for the payment
// @Tags tip-history
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTipTransactionRequest true "Transaction"
// @Success 200 {object} dto.TipTransactionResponse
// @Success 201 {object} dto.TipTransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-history [post]
func (h *Handler) createTipTransaction(c *gin.Context) {
	var req dto.CreateTipTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Invalid tip transaction request", err)
		return
	}

	resp, err := h.tipService.RecordTransaction(c.Request.Context(), &req)
	if err != nil {
		h.serviceError(c, "Failed to record tip transaction", err, zap.String("payment_id", req.PaymentID))
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// updateTipStatus handles PATCH /tip-history
// @Summary Update a transaction status
// @Description Correct the status of a recorded transaction
// @Tags tip-history
// @Accept json
// @Produce json
// @Param update body dto.UpdateTipStatusRequest true "Status update"
// @Success 200 {object} dto.StatusUpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-history [patch]
func (h *Handler) updateTipStatus(c *gin.Context) {
	var req dto.UpdateTipStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Invalid status update request", err)
		return
	}

	tx, err := h.tipService.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		h.serviceError(c, "Failed to update transaction status", err, zap.String("payment_id", req.PaymentID))
		return
	}

	c.JSON(http.StatusOK, dto.StatusUpdateResponse{
		Message: "Transaction status updated",
		Data:    tx,
	})
}

// getTipAnalytics handles GET /tip-analytics
// @Summary Get tenant analytics
// @Description Get a tenant's running tip totals; tenants without tips get zero totals
// @Tags tip-analytics
// @Produce json
// @Param tenant_id query string true "Tenant id" example:"biz_123"
// @Success 200 {object} dto.TipAnalyticsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-analytics [get]
func (h *Handler) getTipAnalytics(c *gin.Context) {
	var req dto.GetTenantRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, "Invalid analytics request", err)
		return
	}

	analytics, err := h.tipService.GetAnalytics(c.Request.Context(), req.TenantID)
	if err != nil {
		h.serviceError(c, "Failed to get analytics", err, zap.String("tenant_id", req.TenantID))
		return
	}

	c.JSON(http.StatusOK, dto.TipAnalyticsResponse{Data: analytics})
}

// foldTipAnalytics handles POST /tip-analytics
// @Summary Add a tip to tenant analytics
// @Tags tip-analytics
// @Accept json
// @Produce json
// @Param tip body dto.FoldAnalyticsRequest true "Tip amounts"
// @Success 200 {object} dto.TipAnalyticsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-analytics [post]
func (h *Handler) foldTipAnalytics(c *gin.Context) {
	var req dto.FoldAnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Invalid analytics update request", err)
		return
	}

	analytics, err := h.tipService.FoldAnalytics(c.Request.Context(), &req)
	if err != nil {
		h.serviceError(c, "Failed to update analytics", err, zap.String("tenant_id", req.TenantID))
		return
	}

	c.JSON(http.StatusOK, dto.TipAnalyticsResponse{Data: analytics})
}

// rebuildTipAnalytics handles POST /tip-analytics/rebuild
// @Summary Rebuild analytics from the ledger
// @Description Recompute one tenant, or all tenants when tenant_id is empty
// @Tags tip-analytics
// @Accept json
// @Produce json
// @Param rebuild body dto.RebuildAnalyticsRequest false "Tenant to rebuild"
// @Success 200 {object} dto.RebuildAnalyticsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-analytics/rebuild [post]
func (h *Handler) rebuildTipAnalytics(c *gin.Context) {
	var req dto.RebuildAnalyticsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.bindError(c, "Invalid rebuild request", err)
			return
		}
	}

	resp, err := h.tipService.RebuildAnalytics(c.Request.Context(), req.TenantID)
	if err != nil {
		h.serviceError(c, "Failed to rebuild analytics", err, zap.String("tenant_id", req.TenantID))
		return
	}

	h.log.Info("Analytics rebuild requested",
		zap.String("tenant_id", req.TenantID),
		zap.Int("rebuilt", resp.Rebuilt),
		zap.Int("failed", len(resp.Errors)))

	c.JSON(http.StatusOK, resp)
}
