package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	LocationModeGeolocation = "geolocation"
	LocationModeFixed       = "fixed"

	StoreBackendDisk   = "disk"
	StoreBackendSQLite = "sqlite"
	StoreBackendMemory = "memory"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	WeatherAPI struct {
		OpenWeatherAPIKey string
		OpenWeatherURL    string
		GeocodingURL      string
		Lang              string
	}

	Assistant struct {
		APIKey  string
		BaseURL string
		Model   string
	}

	HTTP struct {
		Timeout time.Duration
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Location struct {
		Mode             string
		DefaultLatitude  float64
		DefaultLongitude float64
		DefaultPlaceName string
	}

	Store struct {
		Backend string
		Path    string
		Key     string
	}

	Scheduler struct {
		RefreshCron string
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "60s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Weather API configuration
	cfg.WeatherAPI.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.WeatherAPI.OpenWeatherURL = getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5")
	cfg.WeatherAPI.GeocodingURL = getEnv("GEOCODING_URL", "https://api.openweathermap.org/geo/1.0")
	cfg.WeatherAPI.Lang = getEnv("WEATHER_LANG", "ja")

	// Assistant configuration
	cfg.Assistant.APIKey = getEnv("OPENROUTER_API_KEY", "")
	cfg.Assistant.BaseURL = getEnv("ASSISTANT_URL", "https://openrouter.ai/api/v1")
	cfg.Assistant.Model = getEnv("ASSISTANT_MODEL", "gpt-3.5-turbo")

	cfg.HTTP.Timeout = parseDuration(getEnv("HTTP_TIMEOUT", "30s"))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Location configuration, Osaka by default
	cfg.Location.Mode = strings.ToLower(getEnv("LOCATION_MODE", LocationModeGeolocation))
	cfg.Location.DefaultLatitude = parseFloat(getEnv("DEFAULT_LATITUDE", "34.6937"))
	cfg.Location.DefaultLongitude = parseFloat(getEnv("DEFAULT_LONGITUDE", "135.5023"))
	cfg.Location.DefaultPlaceName = getEnv("DEFAULT_PLACE_NAME", "大阪府")

	// Event store configuration
	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", StoreBackendDisk))
	cfg.Store.Path = getEnv("STORE_PATH", "data")
	cfg.Store.Key = getEnv("STORE_KEY", "events")

	cfg.Scheduler.RefreshCron = getEnv("WEATHER_REFRESH_CRON", "")

	if cfg.Location.Mode != LocationModeFixed && cfg.Location.Mode != LocationModeGeolocation {
		zap.L().Warn("Unknown location mode, falling back to geolocation",
			zap.String("mode", cfg.Location.Mode))
		cfg.Location.Mode = LocationModeGeolocation
	}

	return cfg, nil
}

// FixedLocation reports whether the page always uses the default coordinate.
func (c *Config) FixedLocation() bool {
	return c.Location.Mode == LocationModeFixed
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
