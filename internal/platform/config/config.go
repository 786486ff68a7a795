package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string
	RateLimit     string // ulule/limiter formatted rate, e.g. "100-M"

	// Matching engine defaults; overridable per request.
	MatchToleranceBps   int64 // Relative amount tolerance in basis points of a percent (1 = 0.01%)
	MatchDateWindowDays int
	MatchMaxGroupSize   int

	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "ledger-recon-app")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("MATCH_TOLERANCE_BPS", 1)
	viper.SetDefault("MATCH_DATE_WINDOW_DAYS", 3)
	viper.SetDefault("MATCH_MAX_GROUP_SIZE", 4)
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.MatchToleranceBps = viper.GetInt64("MATCH_TOLERANCE_BPS")
	cfg.MatchDateWindowDays = viper.GetInt("MATCH_DATE_WINDOW_DAYS")
	cfg.MatchMaxGroupSize = viper.GetInt("MATCH_MAX_GROUP_SIZE")

	cfg.ShutdownTimeout = viper.GetDuration("SHUTDOWN_TIMEOUT")

	return cfg, nil
}
