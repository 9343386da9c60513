package routes

import (
	"idea-collab-api/internal/ai"
	"idea-collab-api/internal/auth"
	"idea-collab-api/internal/config"
	"idea-collab-api/internal/handlers"
	"idea-collab-api/internal/middleware"
	"idea-collab-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Realtime hub/router; tokens are verified with the same JWT layer the
	// HTTP middleware uses, but in-band over the socket.
	hub := realtime.NewHub()
	rtRouter := realtime.NewRouter(hub, func(token string) (realtime.Identity, error) {
		claims, err := auth.ValidateToken(token)
		if err != nil {
			return realtime.Identity{}, err
		}
		return realtime.Identity{UserID: claims.UserID, Email: claims.Email}, nil
	})
	handlers.InitRealtime(hub, rtRouter)

	if cfg.OpenAIKey != "" {
		handlers.InitAI(ai.NewOpenAIEnhancer(cfg.OpenAIKey, cfg.OpenAIModel))
	}

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Idea Collab API is running",
		})
	})

	// WebSocket endpoint; authentication happens in-band
	ginRouter.GET("/ws", handlers.WebSocketHandler)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/auth/register", handlers.Register)
		api.POST("/auth/login", handlers.Login)
		api.GET("/public/ideas/:token", handlers.GetPublicIdea)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Idea endpoints
		protectedRoutes.GET("/ideas", handlers.GetIdeas)
		protectedRoutes.GET("/ideas/:id", handlers.GetIdeaByID)
		protectedRoutes.POST("/ideas", handlers.CreateIdea)
		protectedRoutes.PUT("/ideas/:id", handlers.UpdateIdea)
		protectedRoutes.DELETE("/ideas/:id", handlers.DeleteIdea)
		// Sharing
		protectedRoutes.POST("/ideas/:id/share", handlers.ShareIdea)
		protectedRoutes.DELETE("/ideas/:id/share/:userId", handlers.RemoveCollaborator)
		protectedRoutes.POST("/ideas/:id/public-share", handlers.CreatePublicShare)
		protectedRoutes.DELETE("/ideas/:id/public-share", handlers.RevokePublicShare)
		// AI enhancement
		protectedRoutes.POST("/ai/enhance/:id", handlers.EnhanceIdea)
		protectedRoutes.GET("/ai/enhancements/:id", handlers.GetEnhancements)
		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)
	}

	return ginRouter
}
