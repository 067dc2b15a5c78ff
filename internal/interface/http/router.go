package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/seasonal-tarot/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		tarotGroup := api.Group("/tarot")
		tarotGroup.POST("/draw", handler.DrawSpread)
		tarotGroup.POST("/draw-single", handler.DrawSingle)
		tarotGroup.GET("/spread-info", handler.SpreadInfo)
		tarotGroup.GET("/cards", handler.Cards)
		tarotGroup.POST("/validate-reading", handler.ValidateReading)

		analysisGroup := api.Group("/analysis")
		analysisGroup.POST("/full", handler.AnalyzeFull)
		analysisGroup.POST("/insight", handler.AnalyzeInsight)
		analysisGroup.POST("/seasonal", handler.AnalyzeSeasonal)
		analysisGroup.POST("/complete", handler.AnalyzeComplete)
		analysisGroup.POST("/daily-single", handler.AnalyzeDailySingle)
		analysisGroup.GET("/status", handler.AnalysisStatus)

		configGroup := api.Group("/config")
		configGroup.GET("/api-types", handler.APITypes)
		configGroup.GET("/status", handler.ConfigStatus)
		configGroup.GET("/models", handler.Models)

		guarded := configGroup.Group("", operatorMiddleware(handler.adminSvc))
		guarded.POST("/set-api", handler.SetAPI)
		guarded.POST("/model", handler.SetModel)
		guarded.POST("/validate", handler.ValidateKey)

		adminGroup := api.Group("/admin")
		adminGroup.POST("/login", handler.AdminLogin)
		adminGroup.GET("/usage", operatorMiddleware(handler.adminSvc), handler.Usage)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
