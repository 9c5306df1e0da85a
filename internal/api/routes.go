package api

import (
	"net/http"

	"flexapp/flex-api/internal/config"
	"flexapp/flex-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes wires handlers, middleware, and CORS onto the router.
func SetupRoutes(
	router *gin.Engine,
	corsCfg config.CORSConfig,
	authService service.AuthService,
	plannerService service.PlannerService,
	logger *zap.Logger,
) {
	authHandler := NewAuthHandler(authService, logger)
	plannerHandler := NewPlannerHandler(plannerService, logger)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsCfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to FLEX API"})
	})

	authMiddleware := AuthMiddleware(authService, logger)

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/token", authHandler.Token)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}

		plannerGroup := apiGroup.Group("/ai-planner")
		plannerGroup.Use(authMiddleware)
		{
			plannerGroup.POST("/generate", plannerHandler.Generate)
			plannerGroup.GET("/plans", plannerHandler.ListPlans)
			plannerGroup.GET("/plans/:id", plannerHandler.GetPlan)
			plannerGroup.DELETE("/plans/:id", plannerHandler.DeletePlan)
		}
	}
}
