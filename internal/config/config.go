package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends the conversation state can live in.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type AppConfig struct {
	Port string

	// NLU service (LUIS-style).
	NLUBaseURL string
	NLUAppID   string
	NLUSubKey  string

	// Forecast and historical-climate backends.
	ForecastURL    string
	HistoryURL     string
	GeocoderAPIKey string

	// Outbound HTTP timeout; calls are single-attempt and bounded by this.
	HTTPTimeout time.Duration

	// Conversation store selection and retention.
	StoreBackend    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ConversationTTL time.Duration // idle conversations expire after this
	SweepInterval   time.Duration // memory-store sweep cadence

	// Logging.
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "3978")

	cfg.NLUBaseURL = getenvDefault("NLU_BASE_URL", "https://westus.api.cognitive.microsoft.com/luis/v2.0/apps")
	cfg.NLUAppID = os.Getenv("NLU_APP_ID")
	cfg.NLUSubKey = os.Getenv("NLU_SUB_KEY")
	if cfg.NLUAppID == "" || cfg.NLUSubKey == "" {
		return nil, fmt.Errorf("NLU_APP_ID and NLU_SUB_KEY are required")
	}

	cfg.ForecastURL = getenvDefault("FORECAST_URL", "http://localhost:4000/datapoint")
	cfg.HistoryURL = getenvDefault("HISTORY_URL", "http://localhost:5000")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.StoreBackend = getenvDefault("STORE_BACKEND", StoreMemory)
	switch cfg.StoreBackend {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q; use %q or %q", cfg.StoreBackend, StoreMemory, StoreRedis)
	}
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)

	ttl, err := getenvDuration("CONVERSATION_TTL", "24h")
	if err != nil {
		return nil, err
	}
	cfg.ConversationTTL = ttl

	sweep, err := getenvDuration("SWEEP_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval = sweep

	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.LogLevel = parseLogLevel(getenvDefault("LOG_LEVEL", "INFO"))

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
