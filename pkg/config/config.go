package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all client configuration
type Config struct {
	// APIKey authenticates requests. May be empty: the request is then sent
	// keyless and relies on an environment-level credential upstream.
	APIKey string

	// TimeoutSeconds bounds each individual request.
	TimeoutSeconds int

	// RatePerSecond caps outbound request rate. Zero or negative disables
	// the limiter.
	RatePerSecond float64

	// Quiet suppresses per-request progress logging.
	Quiet bool

	// Environment selects logger configuration (development, production).
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	key := getEnv("MAPSAPI_KEY", "")
	if key == "" {
		key = getEnv("GOOGLE_MAPS_API_KEY", "")
	}

	cfg := &Config{
		APIKey:         key,
		TimeoutSeconds: getEnvAsInt("MAPSAPI_TIMEOUT_SECONDS", 10),
		RatePerSecond:  getEnvAsFloat("MAPSAPI_RATE_PER_SEC", 1),
		Quiet:          getEnvAsBool("MAPSAPI_QUIET", false),
		Environment:    getEnv("ENVIRONMENT", "development"),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
