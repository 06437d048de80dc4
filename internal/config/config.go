package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (empty disables the results ledger)
	DatabaseURL    string
	MigrateOnStart bool

	// Redis (empty disables snapshot caching and event fan-out)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Match hosting
	TickRate         int
	MatchIdleMinutes int
	PhysicsSubSteps  int
	ShotForce        float64
	CueRotationSpeed float64
	BallSpacing      float64

	// Security
	JWTSecret           string
	SeatTokenTTLMinutes int
	OperatorTokenHash   string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Match hosting
		TickRate:         getEnvInt("TICK_RATE", 60),
		MatchIdleMinutes: getEnvInt("MATCH_IDLE_MINUTES", 30),
		PhysicsSubSteps:  getEnvInt("PHYSICS_SUBSTEPS", 6),
		ShotForce:        getEnvFloat("SHOT_FORCE", 0.8),
		CueRotationSpeed: getEnvFloat("CUE_ROTATION_SPEED", 1.5),
		BallSpacing:      getEnvFloat("BALL_SPACING", 1.01),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		SeatTokenTTLMinutes: getEnvInt("SEAT_TOKEN_TTL_MINUTES", 240),
		OperatorTokenHash:   getEnv("OPERATOR_TOKEN_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
