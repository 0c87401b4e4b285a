package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("CI", "false")
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("SERVER_HOST", "localhost")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "safeplate")
	t.Setenv("DB_PASSWORD", "safeplate")
	t.Setenv("DB_NAME", "safeplate")
	t.Setenv("DB_SSL_MODE", "disable")
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("AIRIA_API_KEY", "test-agent-key")
	t.Setenv("AIRIA_USER_ID", "6f1b7a36-22c5-4bb5-ae6c-b36e07df4ad1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "safeplate", cfg.DBUser)
	assert.Equal(t, "safeplate", cfg.DBPassword)
	assert.Equal(t, "safeplate", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)

	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)

	assert.Equal(t, "test-agent-key", cfg.AgentAPIKey)
	assert.Equal(t, "6f1b7a36-22c5-4bb5-ae6c-b36e07df4ad1", cfg.AgentUserID)
	assert.NotEmpty(t, cfg.AgentEndpoint)
	assert.False(t, cfg.SimulateAgents)
}

func TestLoadConfigSimulationMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SAFEPLATE_SIMULATE_AGENTS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.SimulateAgents)
}

func TestLoadConfigMissingAgentKey(t *testing.T) {
	// A missing agent credential must not fail config load; the agent
	// client short-circuits instead.
	setRequiredEnv(t)
	t.Setenv("AIRIA_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.AgentAPIKey)
}

func TestLoadConfigMissingDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")

	cfg, err := LoadConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "db host")
}

func TestValidateConfig(t *testing.T) {
	t.Run("complete config passes", func(t *testing.T) {
		cfg := &Config{
			ServerPort: "8080",
			DBHost:     "localhost",
			DBPort:     "5432",
			DBUser:     "safeplate",
			DBPassword: "safeplate",
			DBName:     "safeplate",
			DBSSLMode:  "disable",
		}
		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("missing password fails", func(t *testing.T) {
		cfg := &Config{
			ServerPort: "8080",
			DBHost:     "localhost",
			DBPort:     "5432",
			DBUser:     "safeplate",
			DBName:     "safeplate",
			DBSSLMode:  "disable",
		}
		err := ValidateConfig(cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database password")
	})
}
