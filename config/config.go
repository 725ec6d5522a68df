package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime parameters of the arena server.
type Config struct {
	ServerPort     int
	AllowedOrigins []string

	// ShuffleSeed pins the pairing shuffles for reproducible runs.
	// 0 means seed from the clock at startup.
	ShuffleSeed int64

	// DefaultTotalRounds is used when a rating-mode session is created
	// without an explicit round count.
	DefaultTotalRounds int
}

// Load reads configuration from environment variables, optionally loading
// a .env file first (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnvOrDefault("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	origins := strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	var seed int64
	if seedStr := os.Getenv("SHUFFLE_SEED"); seedStr != "" {
		seed, err = strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUFFLE_SEED environment variable: %w", err)
		}
	}

	roundsStr := getEnvOrDefault("DEFAULT_TOTAL_ROUNDS", "5")
	rounds, err := strconv.Atoi(roundsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TOTAL_ROUNDS environment variable: %w", err)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("DEFAULT_TOTAL_ROUNDS must be at least 1, got %d", rounds)
	}

	return &Config{
		ServerPort:         port,
		AllowedOrigins:     origins,
		ShuffleSeed:        seed,
		DefaultTotalRounds: rounds,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
