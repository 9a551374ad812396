package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/stroke-risk/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		assessments := api.Group("/assessments")
		assessments.GET("/options", handler.Options)
		assessments.POST("", handler.Assess)
		assessments.GET("/recent", handler.Recent)
		assessments.GET("/stats", handler.Stats)
		assessments.GET("/:id", handler.GetAssessment)

		sessions := api.Group("/sessions")
		sessions.POST("", handler.OpenSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.PATCH("/:id", handler.UpdateSession)
		sessions.POST("/:id/submit", handler.SubmitSession)
		sessions.DELETE("/:id", handler.CloseSession)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
