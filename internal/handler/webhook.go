package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/service"
)

const maxWebhookBodyBytes = 1 << 20

// receiveWebhook handles POST /webhooks
// @Summary Receive a platform webhook
// @Description Verify a webhook delivery and hand payment.succeeded events to reconciliation.
// @Description The response does not wait for reconciliation to finish.
// @Tags webhooks
// @Accept json
// @Produce plain
// @Success 200 {string} string "OK"
// @Failure 400 {string} string "Invalid webhook"
// @Failure 500 {string} string "Webhook processing failed"
// @Router /webhooks [post]
func (h *Handler) receiveWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		h.log.Warn("Failed to read webhook body", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid webhook")
		return
	}

	if _, err := h.webhookService.Ingest(c.Request.Context(), body, c.Request.Header); err != nil {
		if errors.Is(err, service.ErrInvalidWebhook) {
			c.String(http.StatusBadRequest, "Invalid webhook")
			return
		}
		h.log.Error("Webhook processing failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Webhook processing failed")
		return
	}

	c.String(http.StatusOK, "OK")
}
