// Package config loads application configuration from file and environment
// and owns the global logger setup.
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
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`
	Geo       GeoConfig       `yaml:"geo" mapstructure:"geo"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ArtifactsConfig locates the read-only model bundle.
type ArtifactsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// GeoConfig configures optional district boundary lookups.
type GeoConfig struct {
	DistrictsShapefile string `yaml:"districts_shapefile" mapstructure:"districts_shapefile"`
}

// ScoringConfig configures the scoring engine.
type ScoringConfig struct {
	CompareConcurrency int `yaml:"compare_concurrency" mapstructure:"compare_concurrency"`
}

// SampleLocation is one fixed candidate coordinate used by the expansion
// report.
type SampleLocation struct {
	Lat      float64 `yaml:"lat" mapstructure:"lat"`
	Lng      float64 `yaml:"lng" mapstructure:"lng"`
	District string  `yaml:"district" mapstructure:"district"`
}

// ReportConfig configures expansion report assembly.
type ReportConfig struct {
	InvestmentLowM  int              `yaml:"investment_low_m" mapstructure:"investment_low_m"`
	InvestmentHighM int              `yaml:"investment_high_m" mapstructure:"investment_high_m"`
	SampleLocations []SampleLocation `yaml:"sample_locations" mapstructure:"sample_locations"`
}

// StoreConfig configures the run-history store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
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
	v.SetEnvPrefix("SITESELECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("artifacts.dir", "./model")
	v.SetDefault("geo.districts_shapefile", "")
	v.SetDefault("scoring.compare_concurrency", 4)
	v.SetDefault("report.investment_low_m", 500)
	v.SetDefault("report.investment_high_m", 800)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "siteselect.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 10)
	v.SetDefault("server.rate_limit_burst", 20)
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
