package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/seasonal-tarot/internal/domain/admin"
	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
)

const defaultUsageWindow = 24 * time.Hour

// APITypes lists the supported providers and the active one.
func (h *Handler) APITypes(c *gin.Context) {
	c.JSON(http.StatusOK, apiTypesResponse{
		APITypes:    h.gatewaySvc.Providers(),
		CurrentType: h.gatewaySvc.Snapshot().Provider,
	})
}

// ConfigStatus reports the gateway configuration without the key.
func (h *Handler) ConfigStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.gatewaySvc.Status())
}

// Models lists the models of ?apiType=, defaulting to the active provider.
func (h *Handler) Models(c *gin.Context) {
	snap := h.gatewaySvc.Snapshot()
	id := c.Query("apiType")
	if id == "" {
		id = string(snap.Provider)
	}
	desc, err := llm.Lookup(id)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeUnsupportedProvider, errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, modelsResponse{
		APIType:      desc.ID,
		Models:       desc.Models(),
		CurrentModel: snap.Model,
		DefaultModel: desc.DefaultModel,
	})
}

// SetAPI switches provider, key and model, then probes the new key.
func (h *Handler) SetAPI(c *gin.Context) {
	var req setAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	ctx := c.Request.Context()
	if err := h.gatewaySvc.SetConfig(ctx, req.APIType, req.APIKey, req.Model); err != nil {
		abortWithError(c, fromAppError(err, "config_failed"))
		return
	}
	h.logger.Info("gateway reconfigured", "operator", operatorName(c), "provider", req.APIType)
	result := h.gatewaySvc.Validate(ctx)
	if !result.Valid {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "validation_failed", result.Message, nil))
		return
	}
	snap := h.gatewaySvc.Snapshot()
	c.JSON(http.StatusOK, setAPIResponse{
		IsConfigured:      snap.IsConfigured(),
		APIType:           snap.Provider,
		Model:             snap.Model,
		ValidationMessage: result.Message,
	})
}

// SetModel changes the model of the active provider.
func (h *Handler) SetModel(c *gin.Context) {
	var req setModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.gatewaySvc.SetModel(c.Request.Context(), strings.TrimSpace(req.Model)); err != nil {
		abortWithError(c, fromAppError(err, "config_failed"))
		return
	}
	h.logger.Info("gateway model changed", "operator", operatorName(c))
	c.JSON(http.StatusOK, setModelResponse{CurrentModel: h.gatewaySvc.Snapshot().Model})
}

// ValidateKey probes the provider with the current key.
func (h *Handler) ValidateKey(c *gin.Context) {
	result := h.gatewaySvc.Validate(c.Request.Context())
	c.JSON(http.StatusOK, validateResponse{
		IsValid:      result.Valid,
		IsConfigured: h.gatewaySvc.Snapshot().IsConfigured(),
		Message:      result.Message,
	})
}

// AdminLogin exchanges operator credentials for a bearer token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req admin.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	resp, err := h.adminSvc.Login(c.Request.Context(), req)
	if err != nil {
		if !h.adminSvc.Enabled() {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "admin_disabled", errMessage(err), err))
			return
		}
		abortWithError(c, fromAppError(err, "login_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Usage summarizes provider calls since ?since= ago (a Go duration, default 24h).
func (h *Handler) Usage(c *gin.Context) {
	if h.usage == nil {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "usage_disabled", "usage log is not enabled", nil))
		return
	}
	window := defaultUsageWindow
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "since must be a positive duration", err))
			return
		}
		window = parsed
	}
	since := h.now().Add(-window)
	summaries, err := h.usage.Summarize(c.Request.Context(), since)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "usage_failed", "failed to summarize usage", err))
		return
	}
	c.JSON(http.StatusOK, usageResponse{Since: since, Summaries: summaries})
}
