package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Work      WorkConfig
	RateLimit RateLimitConfig
	Watchdog  WatchdogConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// RedisConfig backs the distributed clock lock. When disabled the process
// falls back to an in-process lock.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
}

// WorkConfig controls working-time classification and the advance estimate.
type WorkConfig struct {
	Timezone           string
	StandardStart      float64
	StandardEnd        float64
	AssumedWorkingDays int
}

type RateLimitConfig struct {
	ClockRequestsPerMinute int
	Burst                  int
}

type WatchdogConfig struct {
	Interval     time.Duration
	MaxOpenShift time.Duration
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fleet_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	accessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour)
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	lockTTL, err := getEnvDuration("REDIS_LOCK_TTL", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Enabled:  getEnvBool("REDIS_ENABLED", false),
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		LockTTL:  lockTTL,
	}

	// Kafka configuration
	config.Kafka = KafkaConfig{
		Enabled: getEnvBool("KAFKA_ENABLED", false),
		Brokers: getEnvSlice("KAFKA_BROKERS"),
	}

	// Working time configuration
	start, err := getEnvFloat("WORK_STANDARD_START", 8)
	if err != nil {
		return nil, err
	}
	end, err := getEnvFloat("WORK_STANDARD_END", 20)
	if err != nil {
		return nil, err
	}
	assumedDays, err := getEnvInt("WORK_ASSUMED_DAYS", 25)
	if err != nil {
		return nil, err
	}

	config.Work = WorkConfig{
		Timezone:           getEnv("WORK_TIMEZONE", "Asia/Kolkata"),
		StandardStart:      start,
		StandardEnd:        end,
		AssumedWorkingDays: assumedDays,
	}

	// Rate limit configuration
	perMinute, err := getEnvInt("RATE_LIMIT_CLOCK_PER_MINUTE", 6)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_CLOCK_BURST", 3)
	if err != nil {
		return nil, err
	}

	config.RateLimit = RateLimitConfig{
		ClockRequestsPerMinute: perMinute,
		Burst:                  burst,
	}

	// Watchdog configuration
	interval, err := getEnvDuration("WATCHDOG_INTERVAL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getEnvDuration("WATCHDOG_MAX_OPEN_SHIFT", 16*time.Hour)
	if err != nil {
		return nil, err
	}

	config.Watchdog = WatchdogConfig{
		Interval:     interval,
		MaxOpenShift: maxOpen,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.Work.Timezone); err != nil {
		return fmt.Errorf("WORK_TIMEZONE is invalid: %w", err)
	}
	if c.Work.StandardStart < 0 || c.Work.StandardEnd > 24 || c.Work.StandardStart >= c.Work.StandardEnd {
		return fmt.Errorf("WORK_STANDARD_START must be before WORK_STANDARD_END within 0..24")
	}
	if c.Work.AssumedWorkingDays <= 0 {
		return fmt.Errorf("WORK_ASSUMED_DAYS must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if c.RateLimit.ClockRequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_CLOCK_PER_MINUTE and RATE_LIMIT_CLOCK_BURST must be positive")
	}
	if c.Watchdog.Interval <= 0 || c.Watchdog.MaxOpenShift <= 0 {
		return fmt.Errorf("WATCHDOG_INTERVAL and WATCHDOG_MAX_OPEN_SHIFT must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the reference timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Work.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
