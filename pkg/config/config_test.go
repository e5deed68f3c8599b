package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, content map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(content)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, map[string]any{})

	cfg, err := Load(path, "test-version")
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "justai_engine", cfg.Database.Database)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"port": "9000",
		"database": map[string]any{
			"host":     "db.internal",
			"database": "curation",
		},
		"llm": map[string]any{
			"provider": "anthropic",
			"model":    "claude-sonnet-4-20250514",
		},
	})

	cfg, err := Load(path, "dev")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "curation", cfg.Database.Database)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfigFile(t, map[string]any{"port": "9000"})

	t.Setenv("PORT", "7777")
	t.Setenv("PGPASSWORD", "sekret")

	cfg, err := Load(path, "dev")
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, "sekret", cfg.Database.Password)
}

func TestLoad_InvalidProvider(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"llm": map[string]any{"provider": "watson"},
	})

	_, err := Load(path, "dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "justai",
		Password: "pw",
		Database: "justai_engine",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=justai password=pw dbname=justai_engine sslmode=disable",
		cfg.ConnectionString())
}
