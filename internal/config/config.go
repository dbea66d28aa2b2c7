package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for our application
type Config struct {
	Port                     string
	Origins                  []string
	Environment              string
	JWTSecret                string
	AccessTokenExpireMinutes int
	Database                 DatabaseConfig
	Cloudinary               CloudinaryConfig
	FirstSuperuser           string
	FirstSuperuserPassword   string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// CloudinaryConfig holds image host credentials. Uploads are disabled
// entirely when Enabled is false.
type CloudinaryConfig struct {
	Enabled   bool
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "plantswap"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	useImageUpload, err := strconv.ParseBool(getEnv("USE_IMAGE_UPLOAD", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid USE_IMAGE_UPLOAD: %w", err)
	}

	cloudinaryConfig := CloudinaryConfig{
		Enabled:   useImageUpload,
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "plants"),
	}

	// 60 minutes * 24 hours * 8 days = 8 days
	tokenExpireMinutes, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "11520"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
	}

	// Allowed frontend origins, comma separated
	var origins []string
	for _, origin := range strings.Split(getEnv("FRONTEND_URLS", "http://localhost:3000"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	// Return complete configuration
	return &Config{
		Port:                     getEnv("PORT", "8000"),
		Origins:                  origins,
		Environment:              getEnv("APP_ENV", "development"),
		JWTSecret:                getEnv("SECRET_KEY", "default_jwt_secret"),
		AccessTokenExpireMinutes: tokenExpireMinutes,
		Database:                 dbConfig,
		Cloudinary:               cloudinaryConfig,
		FirstSuperuser:           getEnv("FIRST_SUPERUSER", ""),
		FirstSuperuserPassword:   getEnv("FIRST_SUPERUSER_PASSWORD", ""),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
