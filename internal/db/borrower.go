package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

func (db *Database) GetBorrower(ctx context.Context, account string) (*model.BorrowerDocument, error) {
	return findByID[model.BorrowerDocument](ctx, db.collection(model.BorrowerCollection), account)
}

func (db *Database) SaveNewBorrower(ctx context.Context, doc *model.BorrowerDocument) error {
	return db.insertOne(ctx, model.BorrowerCollection, doc.ID, doc)
}

func (db *Database) CountBorrowers(ctx context.Context) (uint64, error) {
	count, err := db.collection(model.BorrowerCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return uint64(count), nil
}

func (db *Database) GetActiveLoan(ctx context.Context, account string) (*model.ActiveLoanDocument, error) {
	return findByID[model.ActiveLoanDocument](ctx, db.collection(model.ActiveLoanCollection), account)
}

func (db *Database) SaveActiveLoan(ctx context.Context, doc *model.ActiveLoanDocument) error {
	return db.replaceOne(ctx, model.ActiveLoanCollection, doc.ID, doc)
}
