package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./model", cfg.Artifacts.Dir)
	assert.Equal(t, 4, cfg.Scoring.CompareConcurrency)
	assert.Equal(t, 500, cfg.Report.InvestmentLowM)
	assert.Equal(t, 800, cfg.Report.InvestmentHighM)
	assert.Empty(t, cfg.Report.SampleLocations)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "siteselect.db", cfg.Store.DSN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
artifacts:
  dir: /opt/siteselect/model
scoring:
  compare_concurrency: 8
report:
  sample_locations:
    - {lat: -6.225, lng: 106.825, district: Setia Budi}
    - {lat: -6.235, lng: 106.805, district: Kebayoran Baru}
store:
  driver: postgres
  database_url: postgres://localhost/siteselect
server:
  port: 9090
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/siteselect/model", cfg.Artifacts.Dir)
	assert.Equal(t, 8, cfg.Scoring.CompareConcurrency)
	require.Len(t, cfg.Report.SampleLocations, 2)
	assert.InDelta(t, -6.225, cfg.Report.SampleLocations[0].Lat, 1e-9)
	assert.Equal(t, "Kebayoran Baru", cfg.Report.SampleLocations[1].District)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply to keys the file omits.
	assert.Equal(t, 800, cfg.Report.InvestmentHighM)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SITESELECT_SERVER_PORT", "7070")
	t.Setenv("SITESELECT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
