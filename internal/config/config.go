package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "BOTADMIN_"

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `toml:"database" envPrefix:"DATABASE_"`
	Logs     LogsConfig     `toml:"logs" envPrefix:"LOGS_"`
	Metrics  MetricsConfig  `toml:"metrics" envPrefix:"METRICS_"`
	Auth     AuthConfig     `toml:"auth" envPrefix:"AUTH_"`
	Redis    RedisConfig    `toml:"redis" envPrefix:"REDIS_"`
	Booking  BookingConfig  `toml:"booking" envPrefix:"BOOKING_"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" env:"HOST"`
	Port            int    `toml:"port" env:"PORT"`
	User            string `toml:"user" env:"USER"`
	Password        string `toml:"password" env:"PASSWORD"`
	DBName          string `toml:"dbname" env:"NAME"`
	SSLMode         string `toml:"sslmode" env:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	AutoMigrate     bool   `toml:"auto_migrate" env:"AUTO_MIGRATE"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" env:"FILE"`
	Level string `toml:"level" env:"LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"ENABLED"`
	ServiceName string `toml:"service_name" env:"SERVICE_NAME"`
	Path        string `toml:"path" env:"PATH"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `toml:"issuer" env:"ISSUER"`
	// TokenTTL время жизни access-токена в минутах
	TokenTTL int `toml:"token_ttl" env:"TOKEN_TTL"`
}

// TokenTTLDuration время жизни токена
func (a AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled" env:"ENABLED"`
	Addr     string `toml:"addr" env:"ADDR"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
}

type BookingConfig struct {
	// Timezone часовой пояс для фильтра по дате и границ месяцев
	Timezone string `toml:"timezone" env:"TIMEZONE"`
	// DefaultDurationMinutes длительность бронирования, если конец не указан
	DefaultDurationMinutes int `toml:"default_duration_minutes" env:"DEFAULT_DURATION_MINUTES"`
	// EnforceCancellationWindow запрещает владельцу отменять бронирование позже чем за 24 часа
	EnforceCancellationWindow bool `toml:"enforce_cancellation_window" env:"ENFORCE_CANCELLATION_WINDOW"`
}

// Location загружает часовой пояс бронирований
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

// DefaultDuration длительность бронирования по умолчанию
func (b BookingConfig) DefaultDuration() time.Duration {
	return time.Duration(b.DefaultDurationMinutes) * time.Minute
}

// Default значения по умолчанию, поверх них читается файл
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "botadmin",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			ServiceName: "bot-admin-service",
			Path:        "/metrics",
		},
		Auth: AuthConfig{
			Issuer:   "bot-admin-service",
			TokenTTL: 60,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Booking: BookingConfig{
			Timezone:                  "UTC",
			DefaultDurationMinutes:    60,
			EnforceCancellationWindow: true,
		},
	}
}

// Load читает config.toml, затем .env (если есть) и переменные окружения BOTADMIN_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl must be positive")
	}
	if c.Booking.DefaultDurationMinutes <= 0 {
		return errors.New("config: booking.default_duration_minutes must be positive")
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("config: booking.timezone: %w", err)
	}
	return nil
}
