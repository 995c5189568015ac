package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Server    ServerConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	Sweeper   SweeperConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name     string
	LogLevel string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Database   string
	SQLitePath string
}

// JWTConfig holds the token secrets. Token lifetimes are fixed in pkg/utils.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	EncryptionKey string
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RedisConfig configures the list cache and rate limiter. An empty Addr disables both.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// MailConfig configures outbound SMTP. An empty Host logs messages instead of sending.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RateLimitConfig struct {
	Enabled bool
	Max     int
	Window  time.Duration
}

type SweeperConfig struct {
	Interval time.Duration
}

// AdminConfig seeds an ADMIN account at startup when both fields are set
type AdminConfig struct {
	UserName string
	Email    string
	Password string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "task-management-backend"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "mysql"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "3306"),
			User:       getEnv("DB_USER", "root"),
			Password:   getEnv("DB_PASSWORD", ""),
			Database:   getEnv("DB_NAME", "task_management"),
			SQLitePath: getEnv("SQLITE_PATH", "task_management.db"),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-key"),
			EncryptionKey: getEnv("TOKEN_ENCRYPTION_KEY", "your-token-encryption-key"),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			CacheTTL: parseDuration(getEnv("CACHE_TTL", "1h"), time.Hour),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     parseInt(getEnv("SMTP_PORT", "587"), 587),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "no-reply@localhost")),
		},
		RateLimit: RateLimitConfig{
			Enabled: parseBool(getEnv("RATE_LIMIT_ENABLED", "true")),
			Max:     parseInt(getEnv("RATE_LIMIT_MAX", "5"), 5),
			Window:  parseDuration(getEnv("RATE_LIMIT_WINDOW", "10m"), 10*time.Minute),
		},
		Sweeper: SweeperConfig{
			Interval: parseDuration(getEnv("TOKEN_SWEEP_INTERVAL", "10m"), 10*time.Minute),
		},
		Admin: AdminConfig{
			UserName: getEnv("ADMIN_USERNAME", "admin"),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	return config
}

// Environment maps the gin mode onto the logger environment
func (c *Config) Environment() string {
	if c.Server.GinMode == "release" {
		return "production"
	}
	return "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using default\n", s)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
