package config

import (
	"time"
)

const defaultStatsExportInterval = time.Minute

type PollerConfig struct {
	StatsExportInterval time.Duration `mapstructure:"stats-export-interval"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.StatsExportInterval <= 0 {
		cfg.StatsExportInterval = defaultStatsExportInterval
	}

	return nil
}
