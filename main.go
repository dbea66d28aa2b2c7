package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"plantswap-server/internal/config"
	"plantswap-server/internal/handlers"
	"plantswap-server/internal/images"
	"plantswap-server/internal/models"
	"plantswap-server/internal/routes"
)

func main() {
	// Load environment variables; a missing .env file is fine in
	// production where the environment is set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection, run migrations, seed the first
	// superuser
	db, err := models.InitDB(models.DatabaseConfig{
		DSN:                    cfg.Database.DSN,
		FirstSuperuserEmail:    cfg.FirstSuperuser,
		FirstSuperuserPassword: cfg.FirstSuperuserPassword,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Image hosting is optional; without credentials the plant endpoints
	// reject uploads instead of failing at boot.
	var imageStore handlers.ImageStore
	if cfg.Cloudinary.Enabled {
		cloudinaryService, err := images.NewCloudinaryService(cfg)
		if err != nil {
			log.Fatalf("Error initializing image host: %v", err)
		}
		imageStore = cloudinaryService
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, db, cfg, imageStore)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
