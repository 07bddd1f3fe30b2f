package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration. It is read once at startup; booking
// policy values here only seed the settings table.
type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		Port     int    `mapstructure:"port"`
		Timezone string `mapstructure:"timezone"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret      string        `mapstructure:"jwt_secret"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"auth"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Minio struct {
		Endpoint  string `mapstructure:"endpoint"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		UseSSL    bool   `mapstructure:"use_ssl"`
		Bucket    string `mapstructure:"bucket"`
	} `mapstructure:"minio"`

	Booking BookingDefaults `mapstructure:"booking"`

	Jobs struct {
		Enabled                 bool          `mapstructure:"enabled"`
		BookingCompletionPeriod time.Duration `mapstructure:"booking_completion_period"`
		LowStockPeriod          time.Duration `mapstructure:"low_stock_period"`
	} `mapstructure:"jobs"`
}

// BookingDefaults seed the settings row on first start.
type BookingDefaults struct {
	DailyLimitMinutes   int `mapstructure:"daily_limit_minutes"`
	MonthlyLimitMinutes int `mapstructure:"monthly_limit_minutes"`
	SlotMinutes         int `mapstructure:"slot_minutes"`
	OpenHour            int `mapstructure:"open_hour"`
	CloseHour           int `mapstructure:"close_hour"`
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("auth.access_token_ttl", 12*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket", "coworkops-reports")
	v.SetDefault("booking.daily_limit_minutes", 120)
	v.SetDefault("booking.monthly_limit_minutes", 1200)
	v.SetDefault("booking.slot_minutes", 60)
	v.SetDefault("booking.open_hour", 8)
	v.SetDefault("booking.close_hour", 20)
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.booking_completion_period", 5*time.Minute)
	v.SetDefault("jobs.low_stock_period", 30*time.Minute)
}

// envBindings keeps the flat variable names operators already use.
var envBindings = map[string]string{
	"app.env":          "APP_ENV",
	"app.port":         "PORT",
	"app.timezone":     "APP_TIMEZONE",
	"app.log_level":    "LOG_LEVEL",
	"database.url":     "DATABASE_URL",
	"auth.jwt_secret":  "JWT_SECRET",
	"redis.addr":       "REDIS_ADDR",
	"redis.password":   "REDIS_PASSWORD",
	"redis.db":         "REDIS_DB",
	"minio.endpoint":   "MINIO_ENDPOINT",
	"minio.access_key": "MINIO_ACCESS_KEY",
	"minio.secret_key": "MINIO_SECRET_KEY",
	"minio.use_ssl":    "MINIO_USE_SSL",
	"minio.bucket":     "MINIO_BUCKET",
}

// Load reads the optional config file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COWORKOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.Port)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	b := c.Booking
	if b.DailyLimitMinutes <= 0 || b.MonthlyLimitMinutes <= 0 || b.SlotMinutes <= 0 {
		return fmt.Errorf("booking limits and slot size must be positive")
	}
	if b.OpenHour < 0 || b.CloseHour > 23 || b.OpenHour >= b.CloseHour {
		return fmt.Errorf("booking open hour must be before close hour")
	}
	return nil
}
