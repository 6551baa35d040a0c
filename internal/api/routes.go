package api

import (
	"github.com/RishiKendai/hermes/internal/config"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.Default()

	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.GET("/candidates", handler.ListCandidates)
		api.POST("/candidates", handler.AddCandidate)
		api.POST("/candidates/import", handler.ImportCandidates)
		api.POST("/candidates/:id/assign", handler.AssignTests)
		api.DELETE("/candidates/:id", handler.RemoveCandidate)

		api.POST("/invites", handler.InviteCandidates)
		api.GET("/invites/:batchId", handler.InviteBatchStatus)

		api.GET("/tests", handler.ListTests)
		api.POST("/tests", handler.CreateTest)
		api.PUT("/tests/:id", handler.UpdateTest)
		api.DELETE("/tests/:id", handler.DeleteTest)
		api.POST("/tests/recommend", handler.RecommendTests)
		api.GET("/tests/search", handler.SearchTests)

		api.GET("/questionbank", handler.ListQuestionBank)
		api.GET("/assessments", handler.ListAssessments)
		api.GET("/dashboard", handler.Dashboard)
	}

	return router
}
