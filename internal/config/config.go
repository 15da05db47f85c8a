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
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the on-disk OSM cache.
type CacheConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CatalogConfig configures the remote region catalog.
type CatalogConfig struct {
	IndexURL      string `yaml:"index_url" mapstructure:"index_url"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	FreshnessDays int    `yaml:"freshness_days" mapstructure:"freshness_days"`
}

// AnalysisConfig holds default analysis parameters.
type AnalysisConfig struct {
	BufferKm     float64 `yaml:"buffer_km" mapstructure:"buffer_km"`
	MinRiskScore float64 `yaml:"min_risk_score" mapstructure:"min_risk_score"`
	CriteriaFile string  `yaml:"criteria_file" mapstructure:"criteria_file"`
}

// FetchConfig configures HTTP download behavior.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// LogConfig configures logging.
type LogConfig struct {
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
	v.SetEnvPrefix("SAFETY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache.dir", "data/osm_cache")
	v.SetDefault("catalog.index_url", "https://download.geofabrik.de/index-v1.json")
	v.SetDefault("catalog.base_url", "https://download.geofabrik.de")
	v.SetDefault("catalog.freshness_days", 7)
	v.SetDefault("analysis.buffer_km", 5.0)
	v.SetDefault("analysis.min_risk_score", 7.0)
	v.SetDefault("analysis.criteria_file", "")
	v.SetDefault("fetch.user_agent", "safety-cli/1.0")
	v.SetDefault("fetch.timeout_secs", 600)
	v.SetDefault("fetch.max_retries", 3)
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

// InitLogger builds the global zap logger from LogConfig.
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
