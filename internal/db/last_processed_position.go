package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

func (db *Database) GetLastProcessedPosition(ctx context.Context) (*types.LogPosition, error) {
	var result model.LastProcessedPositionDocument
	err := db.collection(model.LastProcessedPositionCollection).
		FindOne(ctx, bson.M{"_id": model.LastProcessedPositionID}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// nothing processed yet
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result.LogPosition, nil
}

func (db *Database) UpdateLastProcessedPosition(ctx context.Context, position types.LogPosition) error {
	update := bson.M{"$set": bson.M{
		"block_number": position.BlockNumber,
		"log_index":    position.LogIndex,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.LastProcessedPositionCollection).
		UpdateOne(ctx, bson.M{"_id": model.LastProcessedPositionID}, update, opts)
	return err
}
