package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var; defaults live in Load.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	AppURL         string `mapstructure:"APP_URL"`
	Timezone       string `mapstructure:"TIMEZONE"`

	// Database
	DBDriver      string `mapstructure:"DB_DRIVER"` // mysql | postgres
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	JWTRefreshHours    int    `mapstructure:"JWT_REFRESH_HOURS"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Recordatorios
	ReminderEnabled       bool   `mapstructure:"REMINDER_ENABLED"`
	ReminderCron          string `mapstructure:"REMINDER_CRON"`
	ReminderOffsetMinutes int    `mapstructure:"REMINDER_OFFSET_MINUTES"`
	ReminderWindowMinutes int    `mapstructure:"REMINDER_WINDOW_MINUTES"`

	// Storage
	UploadStoragePath string `mapstructure:"UPLOAD_STORAGE_PATH"`
	UploadMaxMB       int    `mapstructure:"UPLOAD_MAX_MB"`
	ReportStoragePath string `mapstructure:"REPORT_STORAGE_PATH"`
	FestivosFile      string `mapstructure:"FESTIVOS_FILE"`

	// Geofencing
	GeofenceRequired bool `mapstructure:"GEOFENCE_REQUIRED"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// Optional .env file for local development; missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WORKER_POOL_SIZE", 3)
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("TIMEZONE", "Europe/Madrid")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DATABASE_URL", "impulsa:impulsa@tcp(localhost:3306)/impulsa?charset=utf8mb4&parseTime=true&loc=Local")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("JWT_EXPIRATION_HOURS", 8)
	v.SetDefault("JWT_REFRESH_HOURS", 24)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("REMINDER_ENABLED", true)
	v.SetDefault("REMINDER_CRON", "* * * * *")
	v.SetDefault("REMINDER_OFFSET_MINUTES", 5)
	v.SetDefault("REMINDER_WINDOW_MINUTES", 2)
	v.SetDefault("UPLOAD_STORAGE_PATH", "/tmp/impulsa/documentos")
	v.SetDefault("UPLOAD_MAX_MB", 10)
	v.SetDefault("REPORT_STORAGE_PATH", "/tmp/impulsa/informes")
	v.SetDefault("FESTIVOS_FILE", "festivos.yaml")
	v.SetDefault("GEOFENCE_REQUIRED", false)
	// Bound explicitly so AutomaticEnv picks them up during Unmarshal.
	for _, k := range []string{"JWT_SECRET", "SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM"} {
		v.SetDefault(k, "")
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("config: DB_DRIVER %q no soportado (mysql | postgres)", c.DBDriver)
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en produccion")
	}
	if c.ReminderWindowMinutes < 0 || c.ReminderOffsetMinutes < 0 {
		return fmt.Errorf("config: REMINDER_* no puede ser negativo")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured wall-clock time zone, falling back to
// the process-local zone when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ReminderOffset is the delay after the scheduled time at which a reminder fires.
func (c *Config) ReminderOffset() time.Duration {
	return time.Duration(c.ReminderOffsetMinutes) * time.Minute
}

// ReminderWindow is the tolerance around the reminder target.
func (c *Config) ReminderWindow() time.Duration {
	return time.Duration(c.ReminderWindowMinutes) * time.Minute
}

// FromAddress is the sender used for outgoing mail.
func (c *Config) FromAddress() string {
	if c.SMTPFrom != "" {
		return c.SMTPFrom
	}
	return c.SMTPUser
}
