package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

func (db *Database) GetProtocolStat(ctx context.Context) (*model.ProtocolStatDocument, error) {
	return findByID[model.ProtocolStatDocument](ctx, db.collection(model.ProtocolStatCollection), model.GlobalStatsID)
}

func (db *Database) SaveProtocolStat(ctx context.Context, doc *model.ProtocolStatDocument) error {
	return db.replaceOne(ctx, model.ProtocolStatCollection, doc.ID, doc)
}

func (db *Database) GetDailyProtocolStat(ctx context.Context, id string) (*model.DailyProtocolStatDocument, error) {
	return findByID[model.DailyProtocolStatDocument](ctx, db.collection(model.DailyProtocolStatCollection), id)
}

func (db *Database) SaveDailyProtocolStat(ctx context.Context, doc *model.DailyProtocolStatDocument) error {
	return db.replaceOne(ctx, model.DailyProtocolStatCollection, doc.ID, doc)
}

func (db *Database) ListDailyProtocolStats(ctx context.Context, filter TimeRangeFilter) ([]*model.DailyProtocolStatDocument, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "day_start", Value: 1}}).
		SetLimit(db.limit(filter.Limit))

	return findAll[model.DailyProtocolStatDocument](
		ctx, db.collection(model.DailyProtocolStatCollection), timeRangeQuery("day_start", filter), opts,
	)
}
