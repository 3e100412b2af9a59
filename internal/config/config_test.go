package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-keyword-lab/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsFilled(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/ppc
brands:
  - brand_id: brand-1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30, cfg.Lifecycle.WindowDays)
	assert.Equal(t, domain.DefaultTargetACOS, cfg.Lifecycle.TargetACOSFraction)

	require.Len(t, cfg.Brands, 1)
	thresholds := cfg.Brands[0].DomainThresholds()
	assert.Equal(t, domain.DefaultThresholds("brand-1"), thresholds)
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9999
lifecycle:
  window_days: 14
  run_interval: 12h
brands:
  - brand_id: brand-1
    thresholds:
      clicks_promote_standard: 25
      clicks_promote_competitive: 40
      clicks_negate_standard: 18
      clicks_negate_competitive: 36
      cvr_graduation_factor: 0.9
      ctr_pause_threshold: 0.003
      wasted_spend_red: 750
    settings:
      clicks_to_promote: 25
      target_acos: 28
      enable_auto_promotion: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 14, cfg.Lifecycle.WindowDays)

	thresholds := cfg.Brands[0].DomainThresholds()
	assert.Equal(t, 25, thresholds.ClicksPromoteStandard)
	assert.Equal(t, 40, thresholds.ClicksPromoteCompetitive)
	assert.Equal(t, 0.9, thresholds.CVRGraduationFactor)
	assert.Equal(t, 750.0, thresholds.WastedSpendRed)

	settings := cfg.Brands[0].DomainSettings()
	assert.Equal(t, 25, settings.ClicksToPromote)
	assert.Equal(t, 28.0, settings.TargetACOS)
	assert.True(t, settings.EnableAutoPromotion)
	assert.False(t, settings.EnableAutoNegation)
}

func TestLoad_CompetitiveBelowStandardIsWarnedNotRejected(t *testing.T) {
	path := writeConfig(t, `
brands:
  - brand_id: brand-1
    thresholds:
      clicks_promote_standard: 30
      clicks_promote_competitive: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Brands[0].Thresholds.ClicksPromoteCompetitive)
}

func TestLoad_RejectsBadBrands(t *testing.T) {
	_, err := Load(writeConfig(t, `
brands:
  - thresholds:
      clicks_promote_standard: 5
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing brand_id")

	_, err = Load(writeConfig(t, `
brands:
  - brand_id: brand-1
  - brand_id: brand-1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate brand_id")
}

func TestLoadFromEnv_DSNOverrides(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file/db
clickhouse:
  dsn: clickhouse://file:9000/db
`)

	t.Setenv("POSTGRES_DSN", "postgres://env/db")
	t.Setenv("CLICKHOUSE_DSN", "")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.Postgres.DSN)
	assert.Equal(t, "clickhouse://file:9000/db", cfg.Clickhouse.DSN)
}
