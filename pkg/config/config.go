package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configFile = "config.yaml"

// MaxAITimeout is the upper bound for a single upstream AI call.
const MaxAITimeout = 30 * time.Second

// Config holds all configuration for the booking engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// MigrationsPath is the directory holding SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
}

// AuthConfig holds session authentication settings.
type AuthConfig struct {
	// SessionSecret signs session cookies. Must be stable across restarts.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
	// SessionMaxAge is the session cookie lifetime in seconds.
	SessionMaxAge int `yaml:"session_max_age" env:"SESSION_MAX_AGE" env-default:"1209600"`
	// SecureCookies restricts session cookies to HTTPS.
	SecureCookies bool `yaml:"secure_cookies" env:"SESSION_SECURE_COOKIES" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"bookingai"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"bookingai"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// RedisConfig holds Redis configuration. Redis is optional; leave Host empty to disable.
type RedisConfig struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string        `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"24h"`
}

// AIConfig selects and configures the upstream generative AI provider.
type AIConfig struct {
	// Provider is one of "gemini", "openai" or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"gemini"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL string        `yaml:"base_url" env:"AI_BASE_URL" env-default:""`
	Model   string        `yaml:"model" env:"AI_MODEL" env-default:""`
	Timeout time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"30s"`
	// ChatHotelCap bounds the number of hotels included in a chat prompt.
	ChatHotelCap int `yaml:"chat_hotel_cap" env:"AI_CHAT_HOTEL_CAP" env-default:"10"`

	GeminiAPIKey    string `yaml:"-" env:"GEMINI_API_KEY"`    // Secret - not in YAML
	OpenAIAPIKey    string `yaml:"-" env:"OPENAI_API_KEY"`    // Secret - not in YAML
	AnthropicAPIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
}

// APIKey returns the credential for the configured provider.
func (c *AIConfig) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// A missing config.yaml is not an error; defaults and environment apply.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(configFile); err == nil {
		if err := cleanenv.ReadConfig(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	cfg.Database.Host = ResolveHostForDocker(cfg.Database.Host)
	if cfg.Redis.Host != "" {
		cfg.Redis.Host = ResolveHostForDocker(cfg.Redis.Host)
	}

	return cfg, nil
}

// validate normalizes and checks fields that cleanenv cannot express.
func (c *Config) validate() error {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	switch c.AI.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}

	if c.AI.Timeout <= 0 || c.AI.Timeout > MaxAITimeout {
		c.AI.Timeout = MaxAITimeout
	}
	if c.AI.ChatHotelCap <= 0 {
		return fmt.Errorf("ai.chat_hotel_cap must be positive, got %d", c.AI.ChatHotelCap)
	}
	if c.Env != "local" && c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required outside local environment")
	}
	return nil
}

// IsLocal reports whether the server runs in the local development environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the connection string in URL form, as required by database/sql drivers
// used for migrations.
func (c *DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
