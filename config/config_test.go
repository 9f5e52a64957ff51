package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORACLE_URL", "http://localhost:9999")
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "")
	t.Setenv("CAPTURE_CRON", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "portfolio.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5 9-17 * * 1-5", cfg.CaptureCron)
	assert.Equal(t, "http://localhost:9999", cfg.OracleURL)
}

func TestLoadRequiresOracleURL(t *testing.T) {
	t.Setenv("ORACLE_URL", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ORACLE_URL", "http://oracle.internal")
	t.Setenv("DB_PATH", "/tmp/folio.db")
	t.Setenv("PORT", "9000")
	t.Setenv("ORACLE_KEY", "secret")
	t.Setenv("CAPTURE_CRON", "*/10 * * * *")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/folio.db", cfg.DBPath)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "secret", cfg.OracleKey)
	assert.Equal(t, "*/10 * * * *", cfg.CaptureCron)
}
