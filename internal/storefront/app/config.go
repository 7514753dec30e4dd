package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret        string // Required: HS256 secret for access tokens
	JWTRefreshSecret string // Required: HS256 secret for refresh tokens
	TokenIssuer      string // Optional: iss claim stamped into tokens (default: marketloft-storefront)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 2h)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	MongoURI     string        // Optional: MongoDB connection string (default: mongodb://localhost:27017)
	DatabaseName string        // Optional: MongoDB database name (default: storefront)
	RedisAddr    string        // Optional: Redis address for the product cache; empty disables caching
	CacheTTL     time.Duration // Optional: product cache lifetime (default: 5m)

	PepperFile string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	AdminEmail      string // Optional: email of the built-in admin account
	AdminPassword   string // Optional: password of the built-in admin account
	AdminTOTPSecret string // Optional: when set, admin login requires a TOTP code

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		TokenIssuer:      getEnvOrDefault("TOKEN_ISSUER", "marketloft-storefront"),

		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 0),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", 0),

		MongoURI:     getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnvOrDefault("DB_NAME", "storefront"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CacheTTL:     getEnvDurationOrDefault("PRODUCT_CACHE_TTL", 5*time.Minute),

		PepperFile: getEnvOrDefault("PEPPER_FILE", "pepper"),

		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminTOTPSecret: os.Getenv("ADMIN_TOTP_SECRET"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
