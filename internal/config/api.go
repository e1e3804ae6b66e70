package config

import (
	"errors"
	"fmt"
)

const defaultMaxPageSize = 100

type APIConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MaxPageSize int64  `mapstructure:"max-page-size"`
}

func (cfg *APIConfig) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("api port %d is out of range", cfg.Port)
	}
	if cfg.Port == 0 {
		return errors.New("api port is required")
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = defaultMaxPageSize
	}
	return nil
}

func (cfg *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
