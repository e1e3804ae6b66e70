package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db"
	dbmodel "github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/db/postgres"
)

const disconnectTimeout = 5 * time.Second

// openStore connects to the configured backend and prepares its schema. The
// returned close func releases the connection.
func openStore(ctx context.Context, cfg *config.DbConfig) (db.DbInterface, func(), error) {
	switch cfg.Driver {
	case config.DbDriverPostgres:
		pg, err := postgres.New(ctx, *cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("error while creating postgres client: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("error while migrating postgres: %w", err)
		}
		return pg, func() {
			if err := pg.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close postgres client")
			}
		}, nil
	default:
		if err := dbmodel.Setup(ctx, cfg); err != nil {
			return nil, nil, fmt.Errorf("error while setting up db model: %w", err)
		}
		mongo, err := db.New(ctx, *cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("error while creating db client: %w", err)
		}
		return mongo, func() {
			ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
			defer cancel()
			if err := mongo.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to disconnect db client")
			}
		}, nil
	}
}
