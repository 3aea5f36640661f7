package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	Seed      SeedConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	AppEnv      string
	AppName     string
	Port        string
	CORSOrigins string
}

type LoggerConfig struct {
	Level    string
	Encoding string
	// GORM query log level: silent, error, warn, info
	DBLevel string
}

type PostgresConfig struct {
	DSN             string // DATABASE_URL wins over the discrete fields
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Supabase transaction pooler does not support prepared statements
	PreferSimpleProtocol bool
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	TTL         time.Duration
	IdleTimeout time.Duration
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

type InventoryConfig struct {
	// Stock rows below this quantity count as low stock on the dashboard.
	LowStockThreshold decimal.Decimal
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "development"),
			AppName:     getEnv("APP_NAME", "Wholesale Inventory v1.0"),
			Port:        getEnv("PORT", "3000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
			DBLevel:  getEnv("DB_LOG_LEVEL", "warn"),
		},
		Postgres: PostgresConfig{
			DSN:                  getEnv("DATABASE_URL", ""),
			Host:                 getEnv("DB_HOST", "localhost"),
			Port:                 getEnv("DB_PORT", "5432"),
			User:                 getEnv("DB_USER", "postgres"),
			Password:             getEnv("DB_PASSWORD", ""),
			DBName:               getEnv("DB_NAME", "wholesale"),
			SSLMode:              getEnv("DB_SSLMODE", "disable"),
			TimeZone:             getEnv("DB_TIMEZONE", "Asia/Jakarta"),
			MaxOpenConns:         getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:         getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime:      getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			PreferSimpleProtocol: getEnvBool("DB_PREFER_SIMPLE_PROTOCOL", true),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
			Issuer:      getEnv("JWT_ISSUER", "go-wholesale-inventory"),
			TTL:         getEnvDuration("JWT_TTL", 24*time.Hour),
			IdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 5*time.Minute),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getEnvDecimal("LOW_STOCK_THRESHOLD", decimal.NewFromInt(10)),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}
