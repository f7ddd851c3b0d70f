package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
)

// getTipConfig handles GET /tip-config
// @Summary Get tip configuration
// @Description Get a tenant's tip configuration, or the defaults if none was saved
// @Tags tip-config
// @Produce json
// @Param tenant_id query string true "Tenant id" example:"biz_123"
// @Param experience_id query string false "Experience id" example:"exp_123"
// @Success 200 {object} dto.TipConfigResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-config [get]
func (h *Handler) getTipConfig(c *gin.Context) {
	var req dto.GetTenantRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, "Invalid tip config request", err)
		return
	}

	cfg, err := h.tipService.GetConfig(c.Request.Context(), req.TenantID, req.ExperienceID)
	if err != nil {
		h.serviceError(c, "Failed to get tip config", err, zap.String("tenant_id", req.TenantID))
		return
	}

	c.JSON(http.StatusOK, dto.TipConfigResponse{Data: cfg})
}

// saveTipConfig handles POST /tip-config
// @Summary Save tip configuration
// @Description Save a tenant's tip amounts, creating a platform plan for each new amount
// @Tags tip-config
// @Accept json
// @Produce json
// @Param config body dto.SaveTipConfigRequest true "Tip configuration"
// @Success 200 {object} dto.TipConfigResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tip-config [post]
func (h *Handler) saveTipConfig(c *gin.Context) {
	var req dto.SaveTipConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Invalid tip config", err)
		return
	}

	cfg, err := h.tipService.SaveConfig(c.Request.Context(), &req)
	if err != nil {
		h.serviceError(c, "Failed to save tip config", err, zap.String("tenant_id", req.TenantID))
		return
	}

	c.JSON(http.StatusOK, dto.TipConfigResponse{Data: cfg})
}

// createCheckout handles POST /checkout-config
// @Summary Create a tip checkout
// @Description Create a one-time platform checkout whose metadata carries the tip amount
// @Tags checkout
// @Accept json
// @Produce json
// @Param checkout body dto.CreateCheckoutRequest true "Checkout request"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /checkout-config [post]
func (h *Handler) createCheckout(c *gin.Context) {
	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, "Invalid checkout request", err)
		return
	}

	checkout, err := h.tipService.CreateCheckout(c.Request.Context(), &req)
	if err != nil {
		h.serviceError(c, "Failed to create checkout", err, zap.String("tenant_id", req.TenantID))
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{Data: checkout})
}
