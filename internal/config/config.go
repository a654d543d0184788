package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	App struct {
		Environment   string `yaml:"environment" env:"APP_ENV"`
		MigrationsDir string `yaml:"migrations_dir" env:"APP_MIGRATIONS_DIR"`
		SeedDefaults  bool   `yaml:"seed_defaults" env:"APP_SEED_DEFAULTS"`
	} `yaml:"app"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		TxTimeout       string `yaml:"tx_timeout" env:"DB_TX_TIMEOUT"`
	} `yaml:"database"`

	Logging struct {
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		Format     string `yaml:"format" env:"LOG_FORMAT"`
		File       string `yaml:"file" env:"LOG_FILE"`
		MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
		MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
		MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file, a .env file and
// environment variables, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
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

	// A missing .env is normal; godotenv never overrides variables already set
	_ = godotenv.Load()

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.App.Environment = "development"
	config.App.SeedDefaults = false

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "school"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.TxTimeout = "30s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.MaxSizeMB = 50
	config.Logging.MaxBackups = 5
	config.Logging.MaxAgeDays = 28
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database max_open_conns must be positive")
	}

	if config.Database.MaxIdleConns < 0 || config.Database.MaxIdleConns > config.Database.MaxOpenConns {
		return fmt.Errorf("database max_idle_conns must be between 0 and max_open_conns")
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database conn_max_lifetime format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.TxTimeout); err != nil {
		return fmt.Errorf("invalid database tx_timeout format: %w", err)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging format must be json or text, got %q", config.Logging.Format)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
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

// ConnMaxLifetime returns the parsed connection lifetime. validateConfig has
// already rejected unparsable values.
func (c *Config) ConnMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.Database.ConnMaxLifetime)
	return d
}

// TxTimeout returns the default deadline applied to each unit of work
func (c *Config) TxTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Database.TxTimeout)
	return d
}
