package config

import (
	"errors"
	"fmt"
)

const (
	DbDriverMongo    = "mongo"
	DbDriverPostgres = "postgres"

	defaultMaxPaginationLimit = 100
)

type DbConfig struct {
	Driver   string `mapstructure:"driver"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	Address  string `mapstructure:"address"`
	// Transactions wraps the mutations of one event into a mongo session
	// transaction. It requires a replica set deployment and is mandatory for
	// the mongo driver.
	Transactions       bool   `mapstructure:"transactions"`
	PostgresDSN        string `mapstructure:"postgres-dsn"`
	MaxPaginationLimit int64  `mapstructure:"max-pagination-limit"`
}

func (cfg *DbConfig) Validate() error {
	if cfg.Driver == "" {
		cfg.Driver = DbDriverMongo
	}

	switch cfg.Driver {
	case DbDriverMongo:
		if cfg.Address == "" {
			return errors.New("db address is required")
		}
		if cfg.DbName == "" {
			return errors.New("db name is required")
		}
		// every event must commit as one unit, without it a failed write
		// leaves the feed ahead of the stats
		if !cfg.Transactions {
			return errors.New("db transactions must be enabled for the mongo driver")
		}
	case DbDriverPostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("db postgres-dsn is required")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	if cfg.MaxPaginationLimit < 0 {
		return errors.New("max-pagination-limit must not be negative")
	}
	if cfg.MaxPaginationLimit == 0 {
		cfg.MaxPaginationLimit = defaultMaxPaginationLimit
	}

	return nil
}
