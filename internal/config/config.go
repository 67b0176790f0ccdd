package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLen = 32

type Config struct {
	ServerPort  string
	DatabaseURL string
	DBMaxConns  int32

	JWTSecret string
	TokenTTL  time.Duration

	AuthRateLimit float64
	AuthRateBurst int

	LogLevel   string
	LogFormat  string
	CORSOrigin string
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if len(jwtSecret) < minSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen)
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || tokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration")
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be a positive integer")
	}

	rateLimit, err := strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be a positive number")
	}

	rateBurst, err := strconv.Atoi(getEnv("AUTH_RATE_BURST", "5"))
	if err != nil || rateBurst <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_BURST must be a positive integer")
	}

	logFormat := getEnv("LOG_FORMAT", "json")
	if logFormat != "json" && logFormat != "console" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or console")
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DatabaseURL:   databaseURL,
		DBMaxConns:    int32(maxConns),
		JWTSecret:     jwtSecret,
		TokenTTL:      tokenTTL,
		AuthRateLimit: rateLimit,
		AuthRateBurst: rateBurst,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     logFormat,
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
