package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/edubridge/platform/internal/pkg/helpers"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		FrontendURL    string `yaml:"frontend_url" env:"FRONTEND_URL"`
		AllowedOrigins string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		URL             string `yaml:"url" env:"DATABASE_URL"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_EXPIRES_IN"`
		OAuthStateExpiration  string `yaml:"oauth_state_expiration" env:"JWT_OAUTH_STATE_EXPIRES_IN"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Google struct {
		ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
		ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
		CallbackURL  string `yaml:"callback_url" env:"GOOGLE_CALLBACK_URL"`
	} `yaml:"google"`

	Redis struct {
		Addr          string `yaml:"addr" env:"REDIS_ADDR"`
		Password      string `yaml:"password" env:"REDIS_PASSWORD"`
		DB            int    `yaml:"db" env:"REDIS_DB"`
		SchoolListTTL string `yaml:"school_list_ttl" env:"REDIS_SCHOOL_LIST_TTL"`
	} `yaml:"redis"`

	Events struct {
		Driver       string `yaml:"driver" env:"EVENTS_DRIVER"`
		KafkaBrokers string `yaml:"kafka_brokers" env:"EVENTS_KAFKA_BROKERS"`
		TopicPrefix  string `yaml:"topic_prefix" env:"EVENTS_TOPIC_PREFIX"`
	} `yaml:"events"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from .env, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5173"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "edubridge"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "7d"
	config.JWT.OAuthStateExpiration = "10m"
	config.JWT.Issuer = "edubridge.app"

	config.Google.CallbackURL = "http://localhost:5173/api/auth/google/callback"

	config.Redis.SchoolListTTL = "5m"

	config.Events.Driver = "gochannel"
	config.Events.TopicPrefix = "edubridge."

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database host or url is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	accessExp, err := helpers.ParseDurationStrict(config.JWT.AccessTokenExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if accessExp <= 0 {
		return fmt.Errorf("JWT access token expiration must be positive, got %s", config.JWT.AccessTokenExpiration)
	}

	stateExp, err := helpers.ParseDurationStrict(config.JWT.OAuthStateExpiration)
	if err != nil {
		return fmt.Errorf("invalid OAuth state expiration format: %w", err)
	}
	if stateExp <= 0 {
		return fmt.Errorf("OAuth state expiration must be positive, got %s", config.JWT.OAuthStateExpiration)
	}

	if _, err := helpers.ParseDurationStrict(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}

	switch config.Events.Driver {
	case "none", "gochannel":
	case "kafka":
		if len(config.KafkaBrokers()) == 0 {
			return fmt.Errorf("events driver kafka requires at least one broker")
		}
	default:
		return fmt.Errorf("unknown events driver %q", config.Events.Driver)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// KafkaBrokers splits the comma separated broker list
func (c *Config) KafkaBrokers() []string {
	return splitList(c.Events.KafkaBrokers)
}

// CORSOrigins splits the comma separated list of allowed origins
func (c *Config) CORSOrigins() []string {
	origins := splitList(c.Server.AllowedOrigins)
	if len(origins) == 0 && c.Server.FrontendURL != "" {
		origins = []string{c.Server.FrontendURL}
	}
	return origins
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
