package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ".", cfg.Takeout.Dir)
	assert.Equal(t, "youtube_api_key.txt", cfg.YouTube.APIKeyFile)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.YouTube.BaseURL)
	assert.Equal(t, "api", cfg.YouTube.Backend)
	assert.Equal(t, 100, cfg.Enrich.SampleSize)
	assert.Equal(t, 100, cfg.Enrich.IntervalMs)
	assert.Equal(t, 10, cfg.Enrich.CallTimeoutSecs)
	assert.Equal(t, 3, cfg.Enrich.MaxAttempts)
	assert.Equal(t, "watchstats_output", cfg.Export.Dir)
	assert.ElementsMatch(t, Formats, cfg.Export.Formats)
	assert.Equal(t, "en", cfg.Locale.Lang)
	assert.False(t, cfg.Notify.Enabled)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: json
takeout:
  history_path: /data/watch-history.json
youtube:
  backend: scrape
enrich:
  sample_size: 25
export:
  formats: [csv, json]
locale:
  lang: ru
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/data/watch-history.json", cfg.Takeout.HistoryPath)
	assert.Equal(t, "scrape", cfg.YouTube.Backend)
	assert.Equal(t, 25, cfg.Enrich.SampleSize)
	assert.Equal(t, []string{"csv", "json"}, cfg.Export.Formats)
	assert.Equal(t, "ru", cfg.Locale.Lang)
	// Defaults still apply for unset values
	assert.Equal(t, 100, cfg.Enrich.IntervalMs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0644))
	t.Setenv("WATCHSTATS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("WATCHSTATS_ENRICH_SAMPLE_SIZE", "7")
	t.Setenv("WATCHSTATS_YOUTUBE_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Enrich.SampleSize)
	assert.Equal(t, "env-key", cfg.YouTube.APIKey)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.YouTube.Backend = "api"
	cfg.Enrich.SampleSize = 100
	cfg.Enrich.IntervalMs = 100
	cfg.Enrich.CallTimeoutSecs = 10
	cfg.Export.Dir = "out"
	cfg.Export.Formats = []string{"csv"}
	cfg.Locale.Lang = "en"
	return cfg
}

func TestValidate_LoadIgnoresEnrichSettings(t *testing.T) {
	cfg := validDefaults()
	cfg.Enrich.SampleSize = 0
	cfg.YouTube.Backend = "bogus"

	assert.NoError(t, cfg.Validate("load"))
	assert.NoError(t, cfg.Validate("stats"))
}

func TestValidate_Enrich(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("enrich"))

	cfg.YouTube.Backend = "browser"
	cfg.Enrich.SampleSize = 0
	cfg.Enrich.CallTimeoutSecs = 0
	err := cfg.Validate("enrich")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "youtube.backend must be one of")
	assert.Contains(t, err.Error(), "enrich.sample_size must be >= 1")
	assert.Contains(t, err.Error(), "enrich.call_timeout_secs must be >= 1")
}

func TestValidate_ExportFormats(t *testing.T) {
	cfg := validDefaults()
	cfg.Export.Formats = []string{"csv", "html"}

	err := cfg.Validate("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format html")

	cfg.Export.Formats = Formats
	cfg.Export.Dir = ""
	err = cfg.Validate("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.dir is required")
}

func TestValidate_Lang(t *testing.T) {
	cfg := validDefaults()
	cfg.Locale.Lang = "de"

	err := cfg.Validate("stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locale.lang")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestResolveAPIKey(t *testing.T) {
	dir := t.TempDir()

	cfg := validDefaults()
	cfg.YouTube.APIKey = "  inline  "
	key, err := cfg.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "inline", key)

	keyFile := filepath.Join(dir, "youtube_api_key.txt")
	require.NoError(t, os.WriteFile(keyFile, []byte("from-file\nsecond line\n"), 0600))
	cfg.YouTube.APIKey = ""
	cfg.YouTube.APIKeyFile = keyFile
	key, err = cfg.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-file", key)

	cfg.YouTube.APIKeyFile = filepath.Join(dir, "missing.txt")
	key, err = cfg.ResolveAPIKey()
	require.NoError(t, err)
	assert.Empty(t, key)
}
