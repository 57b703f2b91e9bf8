package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "maricultor", cfg.MongoDB.DBName)
	assert.Equal(t, "0 2 * * *", cfg.Scheduler.ReconciliationCron)
	assert.Equal(t, "0 6 * * 1", cfg.Scheduler.ReportExportCron)
	assert.Equal(t, "America/Lima", cfg.Scheduler.Timezone)
	assert.Equal(t, 1000, cfg.Projection.MonteCarloIterations)
	assert.False(t, cfg.SheetsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MONGODB_DB_NAME", "maricultor_test")
	t.Setenv("MONTE_CARLO_ITERATIONS", "250")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/etc/creds.json")
	t.Setenv("GOOGLE_SHEET_REPORTS_ID", "sheet-123")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "maricultor_test", cfg.MongoDB.DBName)
	assert.Equal(t, 250, cfg.Projection.MonteCarloIterations)
	assert.True(t, cfg.SheetsEnabled())
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestLoadRejectsHalfConfiguredSheets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/etc/creds.json")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEET_REPORTS_ID")
}

func TestLoadRejectsBadIterations(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("MONTE_CARLO_ITERATIONS", "not-a-number")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("MONTE_CARLO_ITERATIONS", "0")
	_, err = Load("")
	require.Error(t, err)
}
