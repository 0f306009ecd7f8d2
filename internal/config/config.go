// Package config loads application configuration from YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonesrussell/newsbrief/internal/feed"
	"github.com/jonesrussell/newsbrief/internal/fetch"
	"github.com/jonesrussell/newsbrief/internal/logger"
)

// Default configuration values.
const (
	defaultDataDir        = "./data/snapshots"
	defaultTitleIndexPath = "./data/titles.db"
	defaultListenAddr     = ":8080"
	defaultSchedule       = "0 */6 * * *"
	defaultConcurrency    = 4
	defaultRetentionLimit = 200
	defaultSeedWindowDays = 3
)

// envPrefix namespaces environment overrides, e.g. NEWSBRIEF_DATA_DIR.
const envPrefix = "NEWSBRIEF"

// Config is the unified application configuration.
type Config struct {
	// DataDir holds the per-date snapshot files.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// TitleIndexPath is the SQLite title archive used to seed dedup.
	TitleIndexPath string `mapstructure:"title_index_path" yaml:"title_index_path"`
	// ListenAddr is the read API bind address.
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	// Schedule is the cron expression for scheduled ingestion runs.
	Schedule string `mapstructure:"schedule" yaml:"schedule"`
	// Concurrency bounds the source fan-out of one ingestion run.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// RetentionLimit caps the record count kept per date after a merge.
	RetentionLimit int `mapstructure:"retention_limit" yaml:"retention_limit"`
	// SeedWindowDays is how many days of archived titles seed the
	// deduplication tracker at run start.
	SeedWindowDays int `mapstructure:"seed_window_days" yaml:"seed_window_days"`

	Logger  logger.Config `mapstructure:"logger"  yaml:"logger"`
	Fetch   fetch.Config  `mapstructure:"fetch"   yaml:"fetch"`
	Sources []feed.Source `mapstructure:"sources" yaml:"sources"`
}

// Load reads configuration from cfgFile (or the default search path when
// empty), applies environment overrides, and validates the result.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No file is fine; defaults and environment apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Fetch = cfg.Fetch.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("title_index_path", defaultTitleIndexPath)
	v.SetDefault("listen_addr", defaultListenAddr)
	v.SetDefault("schedule", defaultSchedule)
	v.SetDefault("concurrency", defaultConcurrency)
	v.SetDefault("retention_limit", defaultRetentionLimit)
	v.SetDefault("seed_window_days", defaultSeedWindowDays)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
}

// Validate rejects configurations the commands cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.RetentionLimit < 0 {
		return fmt.Errorf("retention_limit must not be negative, got %d", c.RetentionLimit)
	}
	if c.SeedWindowDays < 0 {
		return fmt.Errorf("seed_window_days must not be negative, got %d", c.SeedWindowDays)
	}

	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d]: name must not be empty", i)
		}
		if src.URL == "" {
			return fmt.Errorf("source %s: url must not be empty", src.Name)
		}
		if src.Kind == feed.KindHTML && src.Selector == "" {
			return fmt.Errorf("source %s: html sources need a selector", src.Name)
		}
		if src.Kind != "" && src.Kind != feed.KindRSS && src.Kind != feed.KindHTML {
			return fmt.Errorf("source %s: unknown kind %q", src.Name, src.Kind)
		}
	}

	return nil
}
