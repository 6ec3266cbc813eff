package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/culturatoken/ctk-platform/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Account endpoints (public)
		v1.POST("/users", handler.RegisterUser)
		v1.GET("/users/:email", handler.GetUser)
		v1.PUT("/users/:email/preferences", handler.UpdatePreferences)
		v1.PUT("/users/:email/wallet", handler.ConnectWallet)
		v1.GET("/users/:email/investments", handler.ListInvestments)
		v1.GET("/users/:email/recommendations", handler.Recommendations)

		// Campaign endpoints (public read access)
		v1.GET("/shows", handler.ListShows)
		v1.GET("/shows/:show_id", handler.GetShow)

		// Campaign administration (requires authentication)
		v1.POST("/shows", middleware.Auth(authCfg), handler.CreateShow)
		v1.POST("/shows/:show_id/distributions", middleware.Auth(authCfg), handler.DistributeRoyalties)

		// Revenue intake for the distributor sweep (requires API key authentication only)
		v1.POST("/shows/:show_id/revenue", middleware.APIKeyAuth(authCfg), handler.EnqueueRevenue)

		// Investment endpoints (public)
		v1.POST("/investments", handler.CreateInvestment)
		v1.POST("/royalties/claim", handler.ClaimRoyalties)

		// Leaderboard (public read access)
		v1.GET("/leaderboard", handler.Leaderboard)
	}
}
