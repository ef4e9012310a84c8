package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"travel-assistant/amadeus"
)

// Config holds application configuration
type Config struct {
	// Database (only used when LocationStore is "postgres")
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// LLM
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	LLMTimeout       time.Duration
	LLMMaxRetries    int
	LLMRetryBackoff  time.Duration
	ScopeGateEnabled bool

	// Travel data provider
	AmadeusAPIKey     string
	AmadeusAPISecret  string
	AmadeusEnv        string
	AmadeusBaseURL    string
	ProviderTimeout   time.Duration
	ProviderRateLimit float64
	ProviderRateBurst int

	// Location cache
	LocationStore    string
	LocationCacheTTL time.Duration

	// Server
	ServerPort string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "travelassistant"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o"),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		LLMMaxRetries:    getEnvInt("LLM_MAX_RETRIES", 2),
		LLMRetryBackoff:  getEnvDuration("LLM_RETRY_BACKOFF", 2*time.Second),
		ScopeGateEnabled: getEnvBool("SCOPE_GATE_ENABLED", true),

		AmadeusAPIKey:     os.Getenv("AMADEUS_API_KEY"),
		AmadeusAPISecret:  os.Getenv("AMADEUS_API_SECRET"),
		AmadeusEnv:        strings.ToLower(getEnv("AMADEUS_ENV", "test")),
		ProviderTimeout:   getEnvDuration("PROVIDER_TIMEOUT", 20*time.Second),
		ProviderRateLimit: getEnvFloat("PROVIDER_RATE_LIMIT", 10),
		ProviderRateBurst: getEnvInt("PROVIDER_RATE_BURST", 5),

		LocationStore:    strings.ToLower(getEnv("LOCATION_STORE", "memory")),
		LocationCacheTTL: getEnvDuration("LOCATION_CACHE_TTL", 24*time.Hour),

		ServerPort: getEnv("SERVER_PORT", "8080"),
	}

	config.AmadeusBaseURL = getEnv("AMADEUS_BASE_URL", amadeus.TestBaseURL)
	if os.Getenv("AMADEUS_BASE_URL") == "" && config.AmadeusEnv == "production" {
		config.AmadeusBaseURL = amadeus.ProductionBaseURL
	}

	if config.OpenAIAPIKey == "" {
		log.Println("WARNING: OPENAI_API_KEY not set")
	}
	if config.AmadeusAPIKey == "" || config.AmadeusAPISecret == "" {
		log.Println("WARNING: AMADEUS_API_KEY or AMADEUS_API_SECRET not set, provider calls will fail")
	}

	switch config.LocationStore {
	case "memory", "postgres":
	default:
		log.Printf("WARNING: Unknown LOCATION_STORE: %s (using memory as fallback)\n", config.LocationStore)
		config.LocationStore = "memory"
	}

	return config
}

// UsePostgres reports whether resolved locations are persisted in PostgreSQL
func (c *Config) UsePostgres() bool {
	return c.LocationStore == "postgres"
}

// LLM and provider calls one chat turn can make at most
const (
	llmCallsPerTurn      = 3
	providerCallsPerTurn = 3
)

// TurnBudget is the longest one chat turn can take when every LLM call uses
// all its retries and every provider call runs to its timeout
func (c *Config) TurnBudget() time.Duration {
	retries := time.Duration(c.LLMMaxRetries)
	attempts := retries + 1
	backoff := c.LLMRetryBackoff * retries * (retries + 1) / 2
	perCall := attempts*c.LLMTimeout + backoff
	return llmCallsPerTurn*perCall + providerCallsPerTurn*c.ProviderTimeout
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
