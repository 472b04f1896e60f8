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
	Server Server `yaml:"server" mapstructure:"server"`
	Store  Store  `yaml:"store" mapstructure:"store"`
	Parser Parser `yaml:"parser" mapstructure:"parser"`
	Fetch  Fetch  `yaml:"fetch" mapstructure:"fetch"`
	Refine Refine `yaml:"refine" mapstructure:"refine"`
	Log    Log    `yaml:"log" mapstructure:"log"`
}

// Server configures the HTTP surface.
type Server struct {
	Port          int    `yaml:"port" mapstructure:"port"`
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxTextLength int    `yaml:"max_text_length" mapstructure:"max_text_length"`
}

// Store configures the persistence backend. Persistence is optional: with
// driver "none" parse runs are not recorded and feedback is rejected.
type Store struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Parser configures the classification pipeline.
type Parser struct {
	ModelVersion string `yaml:"model_version" mapstructure:"model_version"`
}

// Fetch configures the SSRF-guarded URL fetcher.
type Fetch struct {
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBytes     int64   `yaml:"max_bytes" mapstructure:"max_bytes"`
	MaxRedirects int     `yaml:"max_redirects" mapstructure:"max_redirects"`
	RatePerHost  float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
}

// Refine configures the optional LLM refinement provider.
type Refine struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EVENTWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.max_text_length", 20000)
	v.SetDefault("store.driver", "none")
	v.SetDefault("parser.model_version", "eventwire-0.1")
	v.SetDefault("fetch.user_agent", "eventwire/0.1")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.max_bytes", 2<<20)
	v.SetDefault("fetch.max_redirects", 3)
	v.SetDefault("fetch.rate_per_host", 2)
	v.SetDefault("refine.provider", "none")
	v.SetDefault("refine.model", "claude-haiku-4-5-20251001")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// InitLogger initializes the global zap logger.
func InitLogger(cfg Log) error {
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
