package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction when transactions are
// enabled. Without them the writes of fn are applied one by one, which config
// validation only lets through for standalone test deployments.
func (db *Database) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !db.cfg.Transactions {
		return fn(ctx)
	}

	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	return err
}
