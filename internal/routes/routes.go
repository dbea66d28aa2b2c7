package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantswap-server/internal/config"
	"plantswap-server/internal/handlers"
	"plantswap-server/internal/middleware"
	"plantswap-server/internal/trading"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, images handlers.ImageStore) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	plantHandler := handlers.NewPlantHandler(db, images)
	tradeHandler := handlers.NewTradeHandler(trading.NewEngine(db))

	// Public routes (no authentication required)
	router.POST("/login/token", authHandler.Login)
	router.POST("/users/", userHandler.CreateUser)
	router.GET("/plants/", plantHandler.GetPlants)

	// Authenticated routes. The active-user gate composes on top of
	// credential resolution, matching the error contract: bad or missing
	// credentials are a 401, a deactivated account is a 400.
	private := router.Group("")
	private.Use(middleware.AuthMiddleware(cfg, db), middleware.ActiveUserMiddleware())
	{
		private.POST("/logout", authHandler.Logout)

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/me", authHandler.GetMe)
			userRoutes.GET("/", userHandler.GetUsers)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		plantRoutes := private.Group("/plants")
		{
			plantRoutes.POST("/create", plantHandler.CreatePlant)
			plantRoutes.GET("/me", plantHandler.GetMyPlants)
			plantRoutes.DELETE("/:id", plantHandler.DeletePlant)
		}

		requestRoutes := private.Group("/requests")
		{
			requestRoutes.POST("/create/:outgoing_plant_id/:incoming_plant_id", tradeHandler.CreateTradeRequest)
			requestRoutes.GET("/outgoing", tradeHandler.GetOutgoingTradeRequests)
			requestRoutes.GET("/incoming", tradeHandler.GetIncomingTradeRequests)
			requestRoutes.GET("/all", tradeHandler.GetAllTradeRequests)
			requestRoutes.GET("/:outgoing_plant_id/:incoming_plant_id", tradeHandler.GetTradeRequest)
			requestRoutes.PATCH("/accept/:outgoing_plant_id/:incoming_plant_id", tradeHandler.AcceptTradeRequest)
			requestRoutes.PATCH("/reject/:outgoing_plant_id/:incoming_plant_id", tradeHandler.RejectTradeRequest)
			requestRoutes.POST("/message/:outgoing_plant_id/:incoming_plant_id", tradeHandler.AddTradeMessage)
			requestRoutes.DELETE("/:outgoing_plant_id/:incoming_plant_id", tradeHandler.DeleteTradeRequest)
		}
	}

	// GetPlantByID is registered after /plants/me so the literal route
	// wins over the parameter.
	router.GET("/plants/:id", plantHandler.GetPlantByID)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello World!"})
	})

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
