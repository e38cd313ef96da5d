package config

import (
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Takeout TakeoutConfig `yaml:"takeout" mapstructure:"takeout"`
	YouTube YouTubeConfig `yaml:"youtube" mapstructure:"youtube"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Locale  LocaleConfig  `yaml:"locale" mapstructure:"locale"`
	Notify  NotifyConfig  `yaml:"notify" mapstructure:"notify"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// TakeoutConfig locates the export bundle. Explicit file paths win over
// files discovered under Dir.
type TakeoutConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	HistoryPath  string `yaml:"history_path" mapstructure:"history_path"`
	ActivityPath string `yaml:"activity_path" mapstructure:"activity_path"`
}

// YouTubeConfig configures the duration backend.
type YouTubeConfig struct {
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyFile string `yaml:"api_key_file" mapstructure:"api_key_file"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	WatchURL   string `yaml:"watch_url" mapstructure:"watch_url"`
	Backend    string `yaml:"backend" mapstructure:"backend"` // api, scrape or manual
}

// EnrichConfig controls sampling and pacing of duration lookups.
type EnrichConfig struct {
	SampleSize       int   `yaml:"sample_size" mapstructure:"sample_size"`
	IntervalMs       int   `yaml:"interval_ms" mapstructure:"interval_ms"`
	CallTimeoutSecs  int   `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	MaxAttempts      int   `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int   `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int   `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Seed             int64 `yaml:"seed" mapstructure:"seed"` // 0 picks a random seed
}

// ExportConfig controls which files the export command writes.
type ExportConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"`
}

// LocaleConfig selects the label language for exports and terminal output.
type LocaleConfig struct {
	Lang string `yaml:"lang" mapstructure:"lang"`
}

// NotifyConfig toggles the desktop notification after enrichment.
type NotifyConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Modes are the command names Validate accepts.
var Modes = []string{"load", "stats", "enrich", "export"}

// Backends lists the accepted youtube.backend values.
var Backends = []string{"api", "scrape", "manual"}

// Formats lists the accepted export.formats values.
var Formats = []string{"csv", "xlsx", "json", "sqlite"}

// Langs lists the supported locale.lang values.
var Langs = []string{"en", "ru"}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WATCHSTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("takeout.dir", ".")
	v.SetDefault("takeout.history_path", "")
	v.SetDefault("takeout.activity_path", "")
	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.api_key_file", "youtube_api_key.txt")
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.watch_url", "https://www.youtube.com")
	v.SetDefault("youtube.backend", "api")
	v.SetDefault("enrich.sample_size", 100)
	v.SetDefault("enrich.interval_ms", 100)
	v.SetDefault("enrich.call_timeout_secs", 10)
	v.SetDefault("enrich.max_attempts", 3)
	v.SetDefault("enrich.initial_backoff_ms", 500)
	v.SetDefault("enrich.max_backoff_ms", 10000)
	v.SetDefault("enrich.seed", 0)
	v.SetDefault("export.dir", "watchstats_output")
	v.SetDefault("export.formats", Formats)
	v.SetDefault("locale.lang", "en")
	v.SetDefault("notify.enabled", false)

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

// Validate checks the settings a command depends on. Mode is the command
// name: load, stats, enrich or export.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "load", "stats":
	case "enrich":
		problems = append(problems, c.validateEnrich()...)
	case "export":
		problems = append(problems, c.validateEnrich()...)
		if c.Export.Dir == "" {
			problems = append(problems, "export.dir is required")
		}
		for _, f := range c.Export.Formats {
			if !slices.Contains(Formats, f) {
				problems = append(problems, "export.formats: unknown format "+f)
			}
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if !slices.Contains(Langs, c.Locale.Lang) {
		problems = append(problems, "locale.lang must be one of en, ru")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateEnrich() []string {
	var problems []string
	if !slices.Contains(Backends, c.YouTube.Backend) {
		problems = append(problems, "youtube.backend must be one of api, scrape, manual")
	}
	if c.Enrich.SampleSize < 1 {
		problems = append(problems, "enrich.sample_size must be >= 1")
	}
	if c.Enrich.IntervalMs < 0 {
		problems = append(problems, "enrich.interval_ms must be >= 0")
	}
	if c.Enrich.CallTimeoutSecs < 1 {
		problems = append(problems, "enrich.call_timeout_secs must be >= 1")
	}
	return problems
}

// ResolveAPIKey returns youtube.api_key, falling back to the first line of
// youtube.api_key_file. An empty key with a nil error means none is set.
func (c *Config) ResolveAPIKey() (string, error) {
	if key := strings.TrimSpace(c.YouTube.APIKey); key != "" {
		return key, nil
	}
	if c.YouTube.APIKeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.YouTube.APIKeyFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", eris.Wrapf(err, "config: read api key file %s", c.YouTube.APIKeyFile)
	}
	key, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(key), nil
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
