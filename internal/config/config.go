package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	LogLevel   string
	StaticDir  string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Contact form
	ContactWebhookURL    string
	ContactRatePerMinute int
	ContactRateBurst     int

	// Seed
	SeedFile string

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		StaticDir:  getEnv("STATIC_DIR", "./web"),

		// Database - DATABASE_URL 우선, 없으면 개별 환경변수로 구성
		DatabaseURL:       getDatabaseURL(),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: time.Duration(getEnvAsInt("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,

		// Contact form
		ContactWebhookURL:    getEnv("CONTACT_WEBHOOK_URL", ""),
		ContactRatePerMinute: getEnvAsInt("CONTACT_RATE_PER_MINUTE", 5),
		ContactRateBurst:     getEnvAsInt("CONTACT_RATE_BURST", 3),

		// Seed
		SeedFile: getEnv("SEED_FILE", "./data/seed.yaml"),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.ServerEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	// 1. DATABASE_URL이 있으면 그대로 사용
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// 2. 개별 환경변수로 구성 (k8s secret 키 이름과 일치)
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "leadmaps")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
