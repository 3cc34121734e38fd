package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Mail     MailConfig
	Realtime RealtimeConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"gamehub"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	BaseURL     string `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Type is "memory" or "redis"
	Type string `envconfig:"STORAGE_TYPE" default:"memory"`

	RedisURL          string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	RedisPoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	RedisMinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	RedisDialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
}

// AuthConfig holds session and password settings.
type AuthConfig struct {
	SessionTTL     time.Duration `envconfig:"AUTH_SESSION_TTL" default:"168h"`
	BcryptCost     int           `envconfig:"AUTH_BCRYPT_COST" default:"10"`
	MinPasswordLen int           `envconfig:"AUTH_MIN_PASSWORD_LEN" default:"8"`
}

// MailConfig holds outbound email settings. An empty host disables
// delivery and verification emails are logged instead.
type MailConfig struct {
	SMTPHost string `envconfig:"MAIL_SMTP_HOST" default:""`
	SMTPPort int    `envconfig:"MAIL_SMTP_PORT" default:"587"`
	Username string `envconfig:"MAIL_USERNAME" default:""`
	Password string `envconfig:"MAIL_PASSWORD" default:""`
	From     string `envconfig:"MAIL_FROM" default:"noreply@gamehub.local"`
}

// RealtimeConfig holds websocket hub settings.
type RealtimeConfig struct {
	SendBufferSize  int           `envconfig:"REALTIME_SEND_BUFFER" default:"64"`
	WriteTimeout    time.Duration `envconfig:"REALTIME_WRITE_TIMEOUT" default:"10s"`
	PongTimeout     time.Duration `envconfig:"REALTIME_PONG_TIMEOUT" default:"60s"`
	PingInterval    time.Duration `envconfig:"REALTIME_PING_INTERVAL" default:"54s"`
	MaxMessageBytes int64         `envconfig:"REALTIME_MAX_MESSAGE_BYTES" default:"4096"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Enabled reports whether outbound email is configured.
func (m *MailConfig) Enabled() bool {
	return m.SMTPHost != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
