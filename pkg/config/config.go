package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	IsProduction  bool
	IsDevelopment bool

	// HTTP API Configuration
	HTTPAddr       string
	RequestTimeout time.Duration

	// MongoDB Configuration
	MongoDBURI      string
	MongoDBDatabase string

	// Discord Bot Configuration
	DiscordToken  string
	CommandPrefix string

	// Recipe Source Configuration
	MealDBBaseURL         string
	RecipePoolSize        int
	RecipeRefreshInterval time.Duration

	// Logging
	LogLevel string
	LogDir   string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		MongoDBURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", ""),
		DiscordToken:    getEnv("DISCORD_TOKEN", ""),
		CommandPrefix:   getEnv("COMMAND_PREFIX", "!"),
		MealDBBaseURL:   getEnv("MEALDB_BASE_URL", "https://www.themealdb.com/api/json/v1/1"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogDir:          getEnv("LOG_DIR", ""),
	}

	// Derived properties
	cfg.IsProduction = cfg.Environment == "production"
	cfg.IsDevelopment = !cfg.IsProduction

	if cfg.MongoDBDatabase == "" {
		cfg.MongoDBDatabase = "nutriplan"
		if cfg.IsDevelopment {
			cfg.MongoDBDatabase = "nutriplan_dev"
		}
	}

	// Parse numeric values
	cfg.RecipePoolSize = getEnvInt("RECIPE_POOL_SIZE", 20)
	cfg.RecipeRefreshInterval = time.Duration(getEnvInt("RECIPE_REFRESH_MINUTES", 60)) * time.Minute
	cfg.RequestTimeout = time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every binary depends on
func (c *Config) Validate() error {
	if c.MongoDBURI == "" {
		return fmt.Errorf("MONGODB_URI environment variable is required")
	}
	if c.RecipePoolSize <= 0 {
		return fmt.Errorf("RECIPE_POOL_SIZE must be positive, got %d", c.RecipePoolSize)
	}
	return nil
}

// ValidateBot checks the settings required by the Discord bot
func (c *Config) ValidateBot() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN environment variable is required")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt parses an integer environment variable, falling back on bad input
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}
