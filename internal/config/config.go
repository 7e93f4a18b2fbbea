package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const prodEnv = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	StoragePath       string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := &Config{}

	cfg.IsProduction = getEnv("APP_ENV", "dev") == prodEnv
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.StoragePath = getEnv("STORAGE_PATH", "./data/images")

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise the provided default.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as an integer, falling back to
// the default when unset and failing when set to a non-integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}
	return val, nil
}
