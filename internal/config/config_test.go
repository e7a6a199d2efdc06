package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  allowed_origins: ["https://n8n.example.com"]

postgres:
  database_url: "postgres://measure:secret@db:5432/measure?sslmode=disable"
  targets_table: "client_targets"
  max_open_conns: 4

snowflake:
  account: "HZDABLB-WLB56571"
  user: "measure"
  password: "pw"
  database: "ANALYTICS"
  schema: "DATASLAYER"
  warehouse: "REPORTING_WH"

redis:
  url: "redis://localhost:6379/0"

logging:
  level: "debug"
  redact_pii: false
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://n8n.example.com"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "client_targets", cfg.Postgres.TargetsTable)
	assert.Equal(t, 4, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 3, cfg.Postgres.MaxIdleConns)

	assert.Equal(t, "HZDABLB-WLB56571", cfg.Snowflake.Account)
	assert.Equal(t, "ANALYTICS", cfg.Snowflake.Database)
	assert.Equal(t, "DATASLAYER", cfg.Snowflake.Schema)
	assert.Equal(t, "REPORTING_WH", cfg.Snowflake.Warehouse)

	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Redact())

	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("postgres:\n  database_url: \"postgres://x\"\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "targets", cfg.Postgres.TargetsTable)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 60, cfg.Snowflake.QueryTimeoutSecs)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redact())
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
postgres:
  database_url: "postgres://file"
snowflake:
  account: "file-account"
  user: "file-user"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("PG_URI", "postgres://pg-uri")
	t.Setenv("DATABASE_URL", "postgres://database-url")
	t.Setenv("TARGETS_TABLE", "targets_v2")
	t.Setenv("SNOWFLAKE_ACCOUNT", "env-account")
	t.Setenv("SNOWFLAKE_DATABASE", "ENV_DB")
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PORT", "9999")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://database-url", cfg.Postgres.DatabaseURL)
	assert.Equal(t, "targets_v2", cfg.Postgres.TargetsTable)
	assert.Equal(t, "env-account", cfg.Snowflake.Account)
	assert.Equal(t, "file-user", cfg.Snowflake.User)
	assert.Equal(t, "ENV_DB", cfg.Snowflake.Database)
	assert.Equal(t, "localhost:6380", cfg.Redis.URL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadFromEnvWithoutFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_URI", "postgres://pg-uri")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://pg-uri", cfg.Postgres.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
	assert.Contains(t, err.Error(), "snowflake")

	cfg.Postgres.DatabaseURL = "postgres://x"
	cfg.Snowflake.ConnectionString = "ACCOUNT=a;USER=u;PASSWORD=p;DB=d"
	assert.NoError(t, cfg.Validate())
}

func TestDurations(t *testing.T) {
	cfg := ServerConfig{ReadTimeoutSeconds: 45}
	assert.Equal(t, 45*time.Second, cfg.ReadTimeout())

	sf := SnowflakeConfig{QueryTimeoutSecs: 2}
	assert.Equal(t, 2*time.Second, sf.QueryTimeout())
}
