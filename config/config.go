package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Default Airia pipeline endpoint; override with AIRIA_RECIPE_AGENT_ENDPOINT.
const defaultAgentEndpoint = "https://api.airia.ai/v2/PipelineExecution/15c2b6ab-5201-4c72-beef-33ec20c9603d"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Recipe agent configuration. The API key is optional at load time:
	// a missing key makes the agent client short-circuit with a
	// structured error instead of calling out.
	AgentEndpoint  string
	AgentAPIKey    string
	AgentUserID    string
	SimulateAgents bool
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	loadAgentConfig(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAgentConfig reads the recipe agent settings. These come from the
// environment in every deployment mode, matching how the agent vendor
// hands out credentials.
func loadAgentConfig(cfg *Config) {
	cfg.AgentEndpoint = os.Getenv("AIRIA_RECIPE_AGENT_ENDPOINT")
	if cfg.AgentEndpoint == "" {
		cfg.AgentEndpoint = defaultAgentEndpoint
	}
	cfg.AgentAPIKey = os.Getenv("AIRIA_API_KEY")
	if cfg.AgentAPIKey == "" {
		// Production keeps the key in a Docker secret rather than the env.
		cfg.AgentAPIKey = readSecret("airia_api_key")
	}
	cfg.AgentUserID = os.Getenv("AIRIA_USER_ID")
	cfg.SimulateAgents = os.Getenv("SAFEPLATE_SIMULATE_AGENTS") == "true"
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) error {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")
	cfg.RedisDB = 0

	return nil
}

// loadDevConfig loads configuration for development and test environments
// from environment variables, falling back to Docker secrets for values
// that are not set.
func loadDevConfig(cfg *Config) error {
	cfg.ServerPort = envOrSecret("SERVER_PORT", "server_port")
	cfg.ServerHost = envOrSecret("SERVER_HOST", "server_host")
	cfg.DBHost = envOrSecret("DB_HOST", "db_host")
	cfg.DBPort = envOrSecret("DB_PORT", "db_port")
	cfg.DBUser = envOrSecret("DB_USER", "db_user")
	cfg.DBPassword = envOrSecret("DB_PASSWORD", "db_password")
	cfg.DBName = envOrSecret("DB_NAME", "db_name")
	cfg.DBSSLMode = envOrSecret("DB_SSL_MODE", "db_ssl_mode")
	cfg.RedisHost = envOrSecret("REDIS_HOST", "redis_host")
	cfg.RedisPort = envOrSecret("REDIS_PORT", "redis_port")
	cfg.RedisPassword = envOrSecret("REDIS_PASSWORD", "redis_password")
	cfg.RedisURL = envOrSecret("REDIS_URL", "redis_url")
	cfg.RedisDB = 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	return nil
}

// loadProdConfig loads configuration for production using ONLY Docker secrets
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = readSecret("server_port")
	cfg.ServerHost = readSecret("server_host")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.RedisDB = 0
}

// envOrSecret prefers an environment variable and falls back to a Docker
// secret of the given name.
func envOrSecret(envVar, secretName string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
