package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Db       DbConfig      `mapstructure:"db"`
	Queue    QueueConfig   `mapstructure:"queue"`
	API      APIConfig     `mapstructure:"api"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Poller   PollerConfig  `mapstructure:"poller"`
	LogLevel string        `mapstructure:"log-level"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Db.Validate(); err != nil {
		return err
	}

	if err := cfg.Queue.Validate(); err != nil {
		return err
	}

	if err := cfg.API.Validate(); err != nil {
		return err
	}

	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}

	if err := cfg.Poller.Validate(); err != nil {
		return err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.InfoLevel.String()
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level %q: %w", cfg.LogLevel, err)
	}

	return nil
}

// New returns a fully parsed Config object from a given file path.
// Every key can be overridden through the environment, e.g. DB_ADDRESS or
// QUEUE_QUEUE_NAME.
func New(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgFile)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
