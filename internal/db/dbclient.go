package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

var _ DbInterface = (*Database)(nil)

type Database struct {
	dbName string
	client *mongo.Client
	cfg    config.DbConfig
}

func New(ctx context.Context, cfg config.DbConfig) (*Database, error) {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetRegistry(model.NewRegistry())
	if cfg.Username != "" {
		clientOps.SetAuth(credential)
	}
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, err
	}

	return &Database{
		dbName: cfg.DbName,
		client: client,
		cfg:    cfg,
	}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

func (db *Database) Disconnect(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *Database) collection(name string) *mongo.Collection {
	return db.client.Database(db.dbName).Collection(name)
}

// insertOne inserts doc and maps a duplicate _id to DuplicateKeyError
func (db *Database) insertOne(ctx context.Context, collection, key string, doc any) error {
	_, err := db.collection(collection).InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     key,
						Message: collection + " record already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

// replaceOne upserts doc under the given _id
func (db *Database) replaceOne(ctx context.Context, collection, id string, doc any) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	var result T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     id,
				Message: coll.Name() + " record not found",
			}
		}
		return nil, err
	}
	return &result, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (db *Database) limit(requested int64) int64 {
	maxLimit := db.cfg.MaxPaginationLimit
	if requested <= 0 || (maxLimit > 0 && requested > maxLimit) {
		return maxLimit
	}
	return requested
}

func timeRangeQuery(field string, filter TimeRangeFilter) bson.M {
	cond := bson.M{"$gte": filter.From}
	if filter.To != 0 {
		cond["$lt"] = filter.To
	}
	return bson.M{field: cond}
}
