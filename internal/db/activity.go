package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

var newestFirst = bson.D{{Key: "block_number", Value: -1}, {Key: "log_index", Value: -1}}

func (db *Database) SaveVaultActivity(ctx context.Context, doc *model.VaultActivityDocument) error {
	return db.insertOne(ctx, model.VaultActivityCollection, doc.ID, doc)
}

func (db *Database) GetVaultActivity(ctx context.Context, id string) (*model.VaultActivityDocument, error) {
	return findByID[model.VaultActivityDocument](ctx, db.collection(model.VaultActivityCollection), id)
}

func (db *Database) ListVaultActivities(ctx context.Context, filter ActivityFilter) ([]*model.VaultActivityDocument, error) {
	query := bson.M{}
	if filter.Account != "" {
		query["account"] = filter.Account
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(db.limit(filter.Limit))

	return findAll[model.VaultActivityDocument](ctx, db.collection(model.VaultActivityCollection), query, opts)
}

func (db *Database) SaveLoanActivity(ctx context.Context, doc *model.LoanActivityDocument) error {
	return db.insertOne(ctx, model.LoanActivityCollection, doc.ID, doc)
}

func (db *Database) GetLoanActivity(ctx context.Context, id string) (*model.LoanActivityDocument, error) {
	return findByID[model.LoanActivityDocument](ctx, db.collection(model.LoanActivityCollection), id)
}

func (db *Database) ListLoanActivities(ctx context.Context, filter ActivityFilter) ([]*model.LoanActivityDocument, error) {
	query := bson.M{}
	if filter.Account != "" {
		query["borrower"] = filter.Account
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(db.limit(filter.Limit))

	return findAll[model.LoanActivityDocument](ctx, db.collection(model.LoanActivityCollection), query, opts)
}

func (db *Database) SaveVaultStatusSnapshot(ctx context.Context, doc *model.VaultStatusSnapshotDocument) error {
	return db.insertOne(ctx, model.VaultStatusSnapshotCollection, doc.ID, doc)
}

func (db *Database) GetVaultStatusSnapshot(ctx context.Context, id string) (*model.VaultStatusSnapshotDocument, error) {
	return findByID[model.VaultStatusSnapshotDocument](ctx, db.collection(model.VaultStatusSnapshotCollection), id)
}

func (db *Database) ListVaultStatusSnapshots(ctx context.Context, filter TimeRangeFilter) ([]*model.VaultStatusSnapshotDocument, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "block_timestamp", Value: 1}, {Key: "log_index", Value: 1}}).
		SetLimit(db.limit(filter.Limit))

	return findAll[model.VaultStatusSnapshotDocument](
		ctx, db.collection(model.VaultStatusSnapshotCollection), timeRangeQuery("block_timestamp", filter), opts,
	)
}
