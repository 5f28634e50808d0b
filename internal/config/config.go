package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Pricing    PricingConfig
	Membership MembershipConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// PricingConfig carries the business-configured shipping rules. The values
// are deployment knobs, not constants.
type PricingConfig struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

// MembershipConfig carries the BOZ PLUS approval parameters.
type MembershipConfig struct {
	DurationDays int // membership period granted on approval
}

// RateLimitConfig carries the API rate-limit policy, a deployment knob like
// the pricing thresholds.
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
}

func Load() *Config {
	// Load .env first so AutomaticEnv sees its values; a missing file is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", 500)
	viper.SetDefault("FLAT_SHIPPING_FEE", 100)
	viper.SetDefault("BOZ_PLUS_DURATION_DAYS", 30)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 300)
	viper.SetDefault("RATE_LIMIT_KEY_PREFIX", "boz_rate_limit")

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: viper.GetFloat64("FREE_SHIPPING_THRESHOLD"),
			FlatShippingFee:       viper.GetFloat64("FLAT_SHIPPING_FEE"),
		},
		Membership: MembershipConfig{
			DurationDays: viper.GetInt("BOZ_PLUS_DURATION_DAYS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			KeyPrefix:         viper.GetString("RATE_LIMIT_KEY_PREFIX"),
		},
	}
}
