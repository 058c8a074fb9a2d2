package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sparkmatch/engine/internal/metrics"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, gatherer prometheus.Gatherer) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Candidate ranking
		matches := v1.Group("/matches")
		{
			matches.POST("/rank", handler.RankMatches) // POST /api/v1/matches/rank
		}

		// Moderation endpoints
		mod := v1.Group("/moderation")
		{
			mod.POST("/evaluate", handler.EvaluateMessage)              // POST /api/v1/moderation/evaluate
			mod.GET("/alerts", handler.ListAlerts)                      // GET /api/v1/moderation/alerts
			mod.POST("/alerts/:id/resolve", handler.ResolveAlert)       // POST /api/v1/moderation/alerts/:id/resolve
			mod.GET("/flags/:user_id", handler.GetUserFlags)            // GET /api/v1/moderation/flags/:user_id
			mod.GET("/stats", handler.GetStats)                         // GET /api/v1/moderation/stats
		}

		// Platform settings
		settings := v1.Group("/settings")
		{
			settings.GET("", handler.GetSettings)    // GET /api/v1/settings
			settings.PUT("", handler.UpdateSettings) // PUT /api/v1/settings
		}
	}
}
