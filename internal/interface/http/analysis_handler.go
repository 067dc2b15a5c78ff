package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/seasonal-tarot/internal/domain/tarot"
	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
)

const notConfiguredMessage = "AI分析服务未配置，请设置API密钥"

// AnalyzeFull returns the five-part interpretation of a reading.
func (h *Handler) AnalyzeFull(c *gin.Context) {
	reading, ok := h.analyzableReading(c)
	if !ok {
		return
	}
	result := h.analysisSvc.AnalyzeSpread(c.Request.Context(), reading)
	c.JSON(http.StatusOK, spreadAnalysisResponse{SpreadResult: result, analysisMeta: h.meta("full")})
}

// AnalyzeInsight returns the one line summary of a reading.
func (h *Handler) AnalyzeInsight(c *gin.Context) {
	reading, ok := h.analyzableReading(c)
	if !ok {
		return
	}
	result := h.analysisSvc.QuickInsight(c.Request.Context(), reading)
	c.JSON(http.StatusOK, insightResponse{InsightResult: result, analysisMeta: h.meta("insight")})
}

// AnalyzeSeasonal returns per-position seasonal tips.
func (h *Handler) AnalyzeSeasonal(c *gin.Context) {
	reading, ok := h.analyzableReading(c)
	if !ok {
		return
	}
	result := h.analysisSvc.SeasonalAdvice(c.Request.Context(), reading)
	c.JSON(http.StatusOK, seasonalAdviceResponse{SeasonalAdviceResult: result, analysisMeta: h.meta("seasonal")})
}

// AnalyzeComplete runs the three spread analyses concurrently.
func (h *Handler) AnalyzeComplete(c *gin.Context) {
	reading, ok := h.analyzableReading(c)
	if !ok {
		return
	}
	result := h.analysisSvc.AnalyzeComplete(c.Request.Context(), reading)
	c.JSON(http.StatusOK, completeAnalysisResponse{
		FullAnalysis:   result.Spread.FullAnalysis,
		CardsSummary:   result.Spread.CardsSummary,
		Insight:        result.Insight.Text,
		SeasonalAdvice: result.Seasonal.Text,
		AnalysisStatus: completeAnalysisStatus{
			FullAnalysis:   result.Spread.Status,
			SeasonalAdvice: result.Seasonal.Status,
		},
		analysisMeta: h.meta("complete"),
	})
}

// AnalyzeDailySingle interprets one card against the user's question.
func (h *Handler) AnalyzeDailySingle(c *gin.Context) {
	var req singleCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if req.Card == nil || !req.Card.Valid() {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "a valid card is required", nil))
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "question is required", nil))
		return
	}
	if !h.requireConfigured(c) {
		return
	}
	result := h.analysisSvc.AnalyzeSingleCard(c.Request.Context(), *req.Card, question)
	c.JSON(http.StatusOK, singleCardResponse{SingleCardResult: result, analysisMeta: h.meta("daily-single")})
}

// AnalysisStatus reports whether analyses can currently be served.
func (h *Handler) AnalysisStatus(c *gin.Context) {
	status := h.gatewaySvc.Status()
	c.JSON(http.StatusOK, analysisStatusResponse{Status: status, ServiceAvailable: status.IsConfigured})
}

// analyzableReading binds and validates the reading, then checks the gateway.
func (h *Handler) analyzableReading(c *gin.Context) (tarot.Reading, bool) {
	reading, ok := h.bindReading(c)
	if !ok {
		return nil, false
	}
	if outcome := tarot.ValidateReading(reading); !outcome.IsValid {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_reading", strings.Join(outcome.Errors, "; "), nil))
		return nil, false
	}
	if !h.requireConfigured(c) {
		return nil, false
	}
	return reading, true
}

func (h *Handler) requireConfigured(c *gin.Context) bool {
	if h.gatewaySvc.Snapshot().IsConfigured() {
		return true
	}
	abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeNotConfigured, notConfiguredMessage, nil))
	return false
}

func (h *Handler) meta(kind string) analysisMeta {
	return analysisMeta{Timestamp: h.now(), AnalysisType: kind}
}
