package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/BarkinBalci/tip-reconciliation-service/internal/domain"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/dto"
	"github.com/BarkinBalci/tip-reconciliation-service/internal/service"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	tipService     service.TipServicer
	webhookService service.WebhookIngester
	healthChecks   map[string]Pinger
	router         *gin.Engine
	log            *zap.Logger
}

// NewHandler creates a new Handler. healthChecks are pinged by GET /health.
func NewHandler(
	tipService service.TipServicer,
	webhookService service.WebhookIngester,
	healthChecks map[string]Pinger,
	allowedOrigins []string,
	log *zap.Logger,
) *Handler {
	router := gin.New()
	router.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error("Recovered from panic in request handler",
			zap.Any("panic", rec),
			zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal_error",
		})
	}))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	h := &Handler{
		tipService:     tipService,
		webhookService: webhookService,
		healthChecks:   healthChecks,
		router:         router,
		log:            log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.router.POST("/webhooks", h.receiveWebhook)

	h.router.GET("/tip-history", h.listTipHistory)
	h.router.POST("/tip-history", h.createTipTransaction)
	h.router.PATCH("/tip-history", h.updateTipStatus)

	h.router.GET("/tip-analytics", h.getTipAnalytics)
	h.router.POST("/tip-analytics", h.foldTipAnalytics)
	h.router.POST("/tip-analytics/rebuild", h.rebuildTipAnalytics)

	h.router.GET("/tip-config", h.getTipConfig)
	h.router.POST("/tip-config", h.saveTipConfig)
	h.router.POST("/checkout-config", h.createCheckout)
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Ping the configured stores
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.healthChecks))
	for name := range h.healthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	resp := dto.HealthResponse{Status: "healthy", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.healthChecks[name].Ping(ctx); err != nil {
			h.log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}

// bindError answers a request that failed binding
func (h *Handler) bindError(c *gin.Context, msg string, err error) {
	h.log.Warn(msg, zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// serviceError maps a service error to a response
func (h *Handler) serviceError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Warn(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		h.log.Warn(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		h.log.Error(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
