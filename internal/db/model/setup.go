package model

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lendoor/lendoor-indexer/internal/config"
)

const (
	VaultActivityCollection         = "vault_activity"
	VaultStatusSnapshotCollection   = "vault_status_snapshot"
	LoanActivityCollection          = "loan_activity"
	ProtocolStatCollection          = "protocol_stat"
	DailyProtocolStatCollection     = "daily_protocol_stat"
	BorrowerCollection              = "borrower"
	ActiveLoanCollection            = "active_loan"
	LastProcessedPositionCollection = "last_processed_position"
)

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	VaultActivityCollection: {
		{Indexes: map[string]int{"account": 1, "block_number": -1, "log_index": -1}},
		{Indexes: map[string]int{"block_timestamp": 1}},
	},
	VaultStatusSnapshotCollection: {
		{Indexes: map[string]int{"block_timestamp": 1}},
	},
	LoanActivityCollection: {
		{Indexes: map[string]int{"borrower": 1, "block_number": -1, "log_index": -1}},
	},
	ProtocolStatCollection:      {{Indexes: map[string]int{}}},
	DailyProtocolStatCollection: {{Indexes: map[string]int{"day_start": 1}, Unique: true}},
	BorrowerCollection:          {{Indexes: map[string]int{}}},
	ActiveLoanCollection: {
		{Indexes: map[string]int{"active": 1}},
	},
	LastProcessedPositionCollection: {{Indexes: map[string]int{}}},
}

// Setup creates every collection and its indexes. Collections must exist
// before the first transactional write.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetRegistry(NewRegistry())
	if cfg.Username != "" {
		clientOps.SetAuth(credential)
	}
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to disconnect setup client")
		}
	}()

	database := client.Database(cfg.DbName)

	for collection, idxs := range collections {
		if err := createCollection(ctx, database, collection); err != nil {
			return err
		}
		for _, idx := range idxs {
			if err := createIndex(ctx, database, collection, idx); err != nil {
				return err
			}
		}
	}

	log.Ctx(ctx).Info().Msg("Collections and Indexes created successfully.")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) error {
	// Check if the collection already exists.
	names, err := database.ListCollectionNames(ctx, bson.M{"name": collectionName})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	if len(names) > 0 {
		log.Ctx(ctx).Debug().Msgf("Collection %s already exists", collectionName)
		return nil
	}

	if err := database.CreateCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collectionName, err)
	}

	log.Ctx(ctx).Debug().Msgf("Collection %s created", collectionName)
	return nil
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	if len(idx.Indexes) == 0 {
		return nil
	}

	// map iteration order is random, key order matters for compound indexes
	keys := bson.D{}
	for _, field := range orderedIndexFields(collectionName, idx) {
		keys = append(keys, bson.E{Key: field, Value: idx.Indexes[field]})
	}

	index := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}

	log.Ctx(ctx).Debug().Msgf("Index on collection %s created", collectionName)
	return nil
}

// orderedIndexFields puts the equality field first, followed by the sort
// fields in log order.
func orderedIndexFields(collectionName string, idx index) []string {
	order := []string{"account", "borrower", "active", "day_start", "block_timestamp", "block_number", "log_index"}

	fields := make([]string, 0, len(idx.Indexes))
	for _, field := range order {
		if _, ok := idx.Indexes[field]; ok {
			fields = append(fields, field)
		}
	}
	if len(fields) != len(idx.Indexes) {
		panic(fmt.Sprintf("index on %s has fields without a defined order", collectionName))
	}
	return fields
}
