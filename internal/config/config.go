package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends
const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	AppMode      string
	Port         string
	API          APIConfig
	Session      SessionConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Cookie       CookieConfig
	ItemsPerPage int
}

// APIConfig holds the payment backend settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds dashboard session settings
type SessionConfig struct {
	Secret        string
	TTL           time.Duration
	Store         string
	SweepSchedule string
}

// DatabaseConfig holds database configuration (mysql session store)
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds redis configuration (redis session store)
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	session, err := loadSessionConfig(appMode)
	if err != nil {
		return nil, err
	}

	itemsPerPage, err := strconv.Atoi(getEnv("ITEMS_PER_PAGE", "20"))
	if err != nil || itemsPerPage < 1 {
		return nil, fmt.Errorf("invalid ITEMS_PER_PAGE: '%s'", os.Getenv("ITEMS_PER_PAGE"))
	}

	cfg := &Config{
		AppMode:      appMode,
		Port:         getEnv("PORT", "3000"),
		API:          loadAPIConfig(),
		Session:      session,
		Database:     loadDatabaseConfig(appMode),
		Redis:        loadRedisConfig(),
		Cookie:       loadCookieConfig(appMode),
		ItemsPerPage: itemsPerPage,
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, session.Store)
	return cfg, nil
}

// loadAPIConfig loads the backend base URL and client timeout
func loadAPIConfig() APIConfig {
	timeout, _ := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "30"))
	if timeout < 1 {
		timeout = 30
	}

	return APIConfig{
		BaseURL: strings.TrimRight(getEnv("API_SERVER", "http://localhost:8000"), "/"),
		Timeout: time.Duration(timeout) * time.Second,
	}
}

// loadSessionConfig loads session config based on mode
func loadSessionConfig(mode string) (SessionConfig, error) {
	ttlHours, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if ttlHours < 1 {
		ttlHours = 24
	}

	store := strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", StoreMemory)))
	switch store {
	case StoreMemory, StoreMySQL, StoreRedis:
	default:
		return SessionConfig{}, fmt.Errorf("invalid SESSION_STORE: '%s' (must be 'memory', 'mysql' or 'redis')", store)
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		if mode == "prod" {
			return SessionConfig{}, fmt.Errorf("SESSION_SECRET is required in prod mode")
		}
		secret = "dev_session_secret"
	}

	return SessionConfig{
		Secret:        secret,
		TTL:           time.Duration(ttlHours) * time.Hour,
		Store:         store,
		SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 10m"),
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "edupayhub"),
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.API.BaseURL
	}
	return origins
}
