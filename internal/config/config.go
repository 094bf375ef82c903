package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage mode selection. The mode is resolved once at startup and injected
// into whichever component needs it; nothing inspects a global flag later.
const (
	StorageModeAuto  = "auto"  // try MongoDB, fall back to files
	StorageModeFile  = "file"  // files only, never touch MongoDB
	StorageModeMongo = "mongo" // MongoDB only, connection failure is fatal
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env
	AppEnv  string // "development" or "production"

	// Storage
	StorageMode string
	MongoURI    string
	MongoDbName string
	DataDir     string

	// Redis (task queue + cart store; optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort        string
	ServiceApiPort string // internal orchestration endpoint, never public
	StaticDir      string

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string
	NotifyEmail     string

	// Rate Limiting Defaults
	RateLimitSoftBucketSize int
	RateLimitSoftRefillRate int // tokens per second
	RateLimitHardBucketSize int
	RateLimitHardRefillRate int // tokens per second
}

// IsProduction reports whether the server runs with production error hygiene
// (generic 500 bodies, no error detail leakage).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode, // Set from flag
	}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	cfg.AppEnv = getEnv("APP_ENV", "development")

	cfg.StorageMode = getEnv("STORAGE_MODE", StorageModeAuto)
	switch cfg.StorageMode {
	case StorageModeAuto, StorageModeFile, StorageModeMongo:
	default:
		return nil, fmt.Errorf("invalid STORAGE_MODE: %q (want auto, file or mongo)", cfg.StorageMode)
	}

	cfg.MongoURI = getEnv("MONGODB_URI", "mongodb://localhost:27017/wasana_products")
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "wasana_products")
	cfg.DataDir = getEnv("DATA_DIR", "data")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	// The insecure default matches what earlier deployments shipped with so a
	// bare checkout still boots; real installs must set JWT_SECRET.
	cfg.JwtSecret = getEnv("JWT_SECRET", "your_super_secret_jwt_key_change_this_in_production")

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", "604800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	cfg.ApiPort = getEnv("PORT", "3000")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "3001")
	cfg.StaticDir = getEnv("STATIC_DIR", "public")

	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	cfg.SmtpPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "noreply@wasana-products.lk")
	cfg.NotifyEmail = getEnv("NOTIFY_EMAIL", "orders@wasana-products.lk")

	// Rate Limiting
	cfg.RateLimitSoftBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_SOFT_BUCKET_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SOFT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitSoftRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_SOFT_REFILL_RATE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SOFT_REFILL_RATE: %w", err)
	}
	cfg.RateLimitHardBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_HARD_BUCKET_SIZE", "40"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_HARD_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitHardRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_HARD_REFILL_RATE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_HARD_REFILL_RATE: %w", err)
	}

	return cfg, nil
}
