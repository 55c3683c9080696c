package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/moneyflow")
	t.Setenv("AUTH0_DOMAIN", "moneyflow.eu.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://api.moneyflow.app")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MigrateOnStart)
	assert.False(t, cfg.Balance.RecomputeOnDelete)
	assert.Equal(t, 30, cfg.Reports.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.Reports.RateLimitBurst)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("BALANCE_RECOMPUTE_ON_DELETE", "1")
	t.Setenv("REPORT_RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("S3_BUCKET", "moneyflow-icons")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.MigrateOnStart)
	assert.True(t, cfg.Balance.RecomputeOnDelete)
	assert.Equal(t, 120, cfg.Reports.RateLimitPerMinute)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("REPORT_RATE_LIMIT_BURST", "lots")
	t.Setenv("BALANCE_RECOMPUTE_ON_DELETE", "sometimes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Reports.RateLimitBurst)
	assert.False(t, cfg.Balance.RecomputeOnDelete)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{"database", "DATABASE_URL", "DATABASE_URL is required"},
		{"domain", "AUTH0_DOMAIN", "AUTH0_DOMAIN is required"},
		{"audience", "AUTH0_AUDIENCE", "AUTH0_AUDIENCE is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_NonPositiveRateLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("REPORT_RATE_LIMIT_PER_MINUTE", "0")

	_, err := Load()
	assert.Error(t, err)
}
