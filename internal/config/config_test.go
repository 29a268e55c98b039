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
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// No config.yaml in a fresh temp dir.
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.RequestTimeoutSecs)
	assert.Equal(t, 15, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, int64(2*1024*1024), cfg.Fetch.MaxBodyBytes)
	assert.Contains(t, cfg.Fetch.UserAgent, "ClientIntelBot")
	assert.Equal(t, 5, cfg.Crawl.MaxTeamPages)
	assert.Equal(t, 5, cfg.Crawl.Concurrency)
	assert.Contains(t, cfg.Crawl.ExcludePaths, "/*.pdf")
	assert.Equal(t, "https://s.jina.ai", cfg.Search.JinaBaseURL)
	assert.InDelta(t, 2.0, cfg.Search.RatePerSec, 0.001)
	assert.Equal(t, 2000, cfg.LLM.SnippetChars)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
  format: console
server:
  port: 9090
naming:
  overrides:
    tjnowak: TJ Nowak
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "TJ Nowak", cfg.Naming.Overrides["tjnowak"])
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Crawl.MaxTeamPages)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("INTEL_STORE_DRIVER", "postgres")
	t.Setenv("INTEL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("INTEL_SERVER_PORT", "3000")
	t.Setenv("INTEL_SEARCH_PROVIDER", "google")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "google", cfg.Search.Provider)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "nothing configured", mutate: func(c *Config) {}},
		{
			name:    "google without cx",
			mutate:  func(c *Config) { c.Search.Provider = SearchGoogle; c.Search.GoogleAPIKey = "k" },
			wantErr: "google_cx",
		},
		{
			name: "google complete",
			mutate: func(c *Config) {
				c.Search.Provider = SearchGoogle
				c.Search.GoogleAPIKey = "k"
				c.Search.GoogleCX = "cx"
			},
		},
		{
			name:    "jina without key",
			mutate:  func(c *Config) { c.Search.Provider = SearchJina },
			wantErr: "jina_key",
		},
		{
			name:    "unknown search",
			mutate:  func(c *Config) { c.Search.Provider = "bing" },
			wantErr: "unknown search provider",
		},
		{
			name:    "anthropic without key",
			mutate:  func(c *Config) { c.LLM.Provider = LLMAnthropic },
			wantErr: "anthropic_key",
		},
		{
			name:    "gemini without key",
			mutate:  func(c *Config) { c.LLM.Provider = LLMGemini },
			wantErr: "gemini_key",
		},
		{
			name:    "unknown llm",
			mutate:  func(c *Config) { c.LLM.Provider = "gpt" },
			wantErr: "unknown llm provider",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Store.Driver = StorePostgres },
			wantErr: "database_url",
		},
		{name: "sqlite", mutate: func(c *Config) { c.Store.Driver = StoreSQLite }},
		{
			name:    "salesforce without creds",
			mutate:  func(c *Config) { c.Store.Driver = StoreSalesforce },
			wantErr: "salesforce",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.Store.Driver = "mongo" },
			wantErr: "unknown store driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
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
