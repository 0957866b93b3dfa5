package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sangkips/salon-commission-api/pkg/bizclock"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Business  BusinessConfig
	Scheduler SchedulerConfig
	Redis     RedisConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// BusinessConfig holds the salon's local calendar rules
type BusinessConfig struct {
	Timezone      string
	WorkStartHour int
	WorkEndHour   int
}

type SchedulerConfig struct {
	Enabled bool
	CatchUp bool
}

// RedisConfig configures the service lookup cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// PrinterConfig selects the front-desk receipt printer
type PrinterConfig struct {
	Type    string // usb, network or none
	USBPath string
	Address string
	Width   int // characters per line: 32 for 58mm paper, 48 for 80mm
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	// A missing .env is fine, the environment still applies.
	_ = v.ReadInConfig()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Business: BusinessConfig{
			Timezone:      v.GetString("BUSINESS_TIMEZONE"),
			WorkStartHour: v.GetInt("WORK_START_HOUR"),
			WorkEndHour:   v.GetInt("WORK_END_HOUR"),
		},
		Scheduler: SchedulerConfig{
			Enabled: v.GetBool("SCHEDULER_ENABLED"),
			CatchUp: v.GetBool("SCHEDULER_CATCH_UP"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("SERVICE_CACHE_TTL_SECONDS")) * time.Second,
		},
		Printer: PrinterConfig{
			Type:    v.GetString("PRINTER_TYPE"),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "salon-commission-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "salon")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 12)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("BUSINESS_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("WORK_START_HOUR", 9)
	v.SetDefault("WORK_END_HOUR", 18)
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_CATCH_UP", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SERVICE_CACHE_TTL_SECONDS", 300)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_WIDTH", 32)
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if _, err := bizclock.Load(c.Business.Timezone); err != nil {
		return err
	}
	start, end := c.Business.WorkStartHour, c.Business.WorkEndHour
	if start < 0 || end > 24 || start >= end {
		return fmt.Errorf("working hours [%d, %d) are not a valid window", start, end)
	}
	if c.RateLimit.Duration <= 0 {
		return fmt.Errorf("RATE_LIMIT_DURATION must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
