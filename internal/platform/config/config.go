package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL         string
	DatabaseMaxConn     int32
	DatabaseLockTimeout time.Duration
	MigrationsPath      string
	Port                string
	IsProduction        bool
	EnableDBCheck       bool
	JWTSecret           string
	RateLimit           string
	CORSOrigins         []string

	// Business rules
	TaxRate                  decimal.Decimal
	ReservationExpiryMinutes int

	// Background jobs
	ReservationSweepInterval time.Duration
	ReservationRetention     time.Duration
	PurgeInterval            time.Duration
	PurgeInitialDelay        time.Duration

	// Product cache
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	// Events and tracing
	KafkaBrokers         []string
	KafkaTopic           string
	OtelExporterEndpoint string
	ServiceName          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PGSQL_MAX_CONNS", 10)
	viper.SetDefault("PGSQL_LOCK_TIMEOUT", "5s")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("TAX_RATE", "0.16")
	viper.SetDefault("RESERVATION_EXPIRY_MINUTES", 15)
	viper.SetDefault("RESERVATION_SWEEP_INTERVAL", "1m")
	viper.SetDefault("RESERVATION_RETENTION", "720h")
	viper.SetDefault("PURGE_INTERVAL", "24h")
	viper.SetDefault("PURGE_INITIAL_DELAY", "1h")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PRODUCT_CACHE_TTL", "5m")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "pos.events")
	viper.SetDefault("OTEL_EXPORTER_ENDPOINT", "")
	viper.SetDefault("SERVICE_NAME", "pos-core")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using in-memory storage.")
	}
	cfg.DatabaseMaxConn = viper.GetInt32("PGSQL_MAX_CONNS")
	cfg.DatabaseLockTimeout = durationOrDefault("PGSQL_LOCK_TIMEOUT", 5*time.Second)
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	taxRateStr := viper.GetString("TAX_RATE")
	taxRate, err := decimal.NewFromString(taxRateStr)
	if err != nil || taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		taxRate = decimal.RequireFromString("0.16")
		log.Printf("Warning: Invalid value for TAX_RATE ('%s'). Defaulting to %s.\n", taxRateStr, taxRate.String())
	}
	cfg.TaxRate = taxRate

	cfg.ReservationExpiryMinutes = viper.GetInt("RESERVATION_EXPIRY_MINUTES")
	if cfg.ReservationExpiryMinutes < 1 || cfg.ReservationExpiryMinutes > 60 {
		log.Printf("Warning: Invalid value for RESERVATION_EXPIRY_MINUTES (%d). Defaulting to 15.\n", cfg.ReservationExpiryMinutes)
		cfg.ReservationExpiryMinutes = 15
	}

	cfg.ReservationSweepInterval = durationOrDefault("RESERVATION_SWEEP_INTERVAL", time.Minute)
	cfg.ReservationRetention = durationOrDefault("RESERVATION_RETENTION", 30*24*time.Hour)
	cfg.PurgeInterval = durationOrDefault("PURGE_INTERVAL", 24*time.Hour)
	cfg.PurgeInitialDelay = durationOrDefault("PURGE_INITIAL_DELAY", time.Hour)
	cfg.ProductCacheTTL = durationOrDefault("PRODUCT_CACHE_TTL", 5*time.Minute)

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")
	cfg.OtelExporterEndpoint = viper.GetString("OTEL_EXPORTER_ENDPOINT")
	cfg.ServiceName = viper.GetString("SERVICE_NAME")

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
