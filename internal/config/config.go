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
	Vocabulary VocabularyConfig `yaml:"vocabulary" mapstructure:"vocabulary"`
	Matcher    MatcherConfig    `yaml:"matcher" mapstructure:"matcher"`
	Resolver   ResolverConfig   `yaml:"resolver" mapstructure:"resolver"`
	Reconcile  ReconcileConfig  `yaml:"reconcile" mapstructure:"reconcile"`
	Compare    CompareConfig    `yaml:"compare" mapstructure:"compare"`
	Engine     EngineConfig     `yaml:"engine" mapstructure:"engine"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// VocabularyConfig points at the field registry. An empty path selects the
// built-in life-insurance registry.
type VocabularyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// MatcherConfig tunes fuzzy label matching.
type MatcherConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	AmbiguityMargin     float64 `yaml:"ambiguity_margin" mapstructure:"ambiguity_margin"`
}

// ResolverConfig tunes duplicate-mention conflict resolution.
type ResolverConfig struct {
	ConfidenceEpsilon float64 `yaml:"confidence_epsilon" mapstructure:"confidence_epsilon"`
}

// ReconcileConfig tunes unit reconciliation.
type ReconcileConfig struct {
	DefaultCurrency string `yaml:"default_currency" mapstructure:"default_currency"`
}

// CompareConfig tunes the cross-document comparison pass.
type CompareConfig struct {
	OutlierMultiplier float64            `yaml:"outlier_multiplier" mapstructure:"outlier_multiplier"`
	Weights           map[string]float64 `yaml:"weights" mapstructure:"weights"`
}

// EngineConfig tunes batch orchestration.
type EngineConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// StoreConfig configures the comparison-run audit store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP comparison service.
type ServerConfig struct {
	Port              int     `yaml:"port" mapstructure:"port"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
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
	v.SetEnvPrefix("QUOTECMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("matcher.similarity_threshold", 0.82)
	v.SetDefault("matcher.ambiguity_margin", 0.05)
	v.SetDefault("resolver.confidence_epsilon", 0.02)
	v.SetDefault("reconcile.default_currency", "USD")
	v.SetDefault("compare.outlier_multiplier", 2.0)
	v.SetDefault("engine.max_concurrent_documents", 4)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "quote-compare.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_second", 10)
	v.SetDefault("server.burst", 20)
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
