package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Crawl      CrawlConfig      `yaml:"crawl" mapstructure:"crawl"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Naming     NamingConfig     `yaml:"naming" mapstructure:"naming"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// FetchConfig configures page retrieval.
type FetchConfig struct {
	UserAgent         string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs       int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RenderJS          bool   `yaml:"render_js" mapstructure:"render_js"`
	RenderTimeoutSecs int    `yaml:"render_timeout_secs" mapstructure:"render_timeout_secs"`
}

// CrawlConfig configures the team page crawl.
type CrawlConfig struct {
	MaxTeamPages int      `yaml:"max_team_pages" mapstructure:"max_team_pages"`
	Concurrency  int      `yaml:"concurrency" mapstructure:"concurrency"`
	ExcludePaths []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
}

// SearchConfig selects and configures the web search backend.
type SearchConfig struct {
	Provider         string  `yaml:"provider" mapstructure:"provider"`
	GoogleAPIKey     string  `yaml:"google_api_key" mapstructure:"google_api_key"`
	GoogleCX         string  `yaml:"google_cx" mapstructure:"google_cx"`
	JinaKey          string  `yaml:"jina_key" mapstructure:"jina_key"`
	JinaBaseURL      string  `yaml:"jina_base_url" mapstructure:"jina_base_url"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec       float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	BreakerFailures  int     `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerResetSecs int     `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// LLMConfig selects and configures the generative text backend.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"`
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	GeminiKey      string `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel    string `yaml:"gemini_model" mapstructure:"gemini_model"`
	MaxTokens      int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	SnippetChars   int    `yaml:"snippet_chars" mapstructure:"snippet_chars"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID   string  `yaml:"client_id" mapstructure:"client_id"`
	Username   string  `yaml:"username" mapstructure:"username"`
	KeyPath    string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL   string  `yaml:"login_url" mapstructure:"login_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// NamingConfig holds display-name overrides keyed by domain stem.
type NamingConfig struct {
	Overrides     map[string]string `yaml:"overrides" mapstructure:"overrides"`
	OverridesFile string            `yaml:"overrides_file" mapstructure:"overrides_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Providers.
const (
	SearchGoogle    = "google"
	SearchJina      = "jina"
	LLMAnthropic    = "anthropic"
	LLMGemini       = "gemini"
	StorePostgres   = "postgres"
	StoreSQLite     = "sqlite"
	StoreSalesforce = "salesforce"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_secs", 120)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; ClientIntelBot/1.0; +https://sellsadvisors.com/bot)")
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.max_body_bytes", 2*1024*1024)
	v.SetDefault("fetch.render_js", false)
	v.SetDefault("fetch.render_timeout_secs", 30)
	v.SetDefault("crawl.max_team_pages", 5)
	v.SetDefault("crawl.concurrency", 5)
	v.SetDefault("crawl.exclude_paths", []string{"/*.pdf", "/*.jpg", "/*.png", "/wp-content/*", "/cdn-cgi/*"})
	v.SetDefault("search.provider", "")
	v.SetDefault("search.jina_base_url", "https://s.jina.ai")
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("search.rate_per_sec", 2.0)
	v.SetDefault("search.breaker_failures", 3)
	v.SetDefault("search.breaker_reset_secs", 60)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout_secs", 45)
	v.SetDefault("llm.snippet_chars", 2000)
	v.SetDefault("store.driver", "")
	v.SetDefault("store.sqlite_path", "client-intel.db")
	v.SetDefault("store.max_conns", 5)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_per_sec", 5.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that every selected provider has the credentials it needs.
// An empty provider means the service is not configured.
func (c *Config) Validate() error {
	switch c.Search.Provider {
	case "":
	case SearchGoogle:
		if c.Search.GoogleAPIKey == "" || c.Search.GoogleCX == "" {
			return eris.New("config: search.provider=google requires google_api_key and google_cx")
		}
	case SearchJina:
		if c.Search.JinaKey == "" {
			return eris.New("config: search.provider=jina requires jina_key")
		}
	default:
		return eris.Errorf("config: unknown search provider %q", c.Search.Provider)
	}

	switch c.LLM.Provider {
	case "":
	case LLMAnthropic:
		if c.LLM.AnthropicKey == "" {
			return eris.New("config: llm.provider=anthropic requires anthropic_key")
		}
	case LLMGemini:
		if c.LLM.GeminiKey == "" {
			return eris.New("config: llm.provider=gemini requires gemini_key")
		}
	default:
		return eris.Errorf("config: unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Store.Driver {
	case "", StoreSQLite:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.driver=postgres requires database_url")
		}
	case StoreSalesforce:
		if c.Salesforce.ClientID == "" || c.Salesforce.Username == "" || c.Salesforce.KeyPath == "" {
			return eris.New("config: store.driver=salesforce requires salesforce client_id, username and key_path")
		}
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
