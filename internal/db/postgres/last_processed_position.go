package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

func (d *Database) GetLastProcessedPosition(ctx context.Context) (*types.LogPosition, error) {
	var position types.LogPosition
	err := d.conn(ctx).QueryRowContext(ctx,
		`SELECT block_number, log_index FROM last_processed_position WHERE id = $1`,
		model.LastProcessedPositionID,
	).Scan(&position.BlockNumber, &position.LogIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (d *Database) UpdateLastProcessedPosition(ctx context.Context, position types.LogPosition) error {
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO last_processed_position (id, block_number, log_index)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			block_number = EXCLUDED.block_number,
			log_index = EXCLUDED.log_index`,
		model.LastProcessedPositionID, position.BlockNumber, position.LogIndex,
	)
	return err
}
