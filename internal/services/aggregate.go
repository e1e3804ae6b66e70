package services

import (
	"context"
	"fmt"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/utils"
)

// aggregate binds the store accessors of one mutable entity kind. Every kind
// provides a constructor that initializes all of its counters, so a record
// read back from the store and a fresh one are interchangeable.
type aggregate[T any] struct {
	kind   string
	load   func(ctx context.Context, key string) (*T, error)
	create func(key string, ts uint64) *T
	save   func(ctx context.Context, doc *T) error
}

// loadOrCreate returns the committed aggregate stored under key, or a new one
// with default values that is not persisted until save is called.
func (a aggregate[T]) loadOrCreate(ctx context.Context, key string, ts uint64) (*T, error) {
	doc, err := a.load(ctx, key)
	if err == nil {
		return doc, nil
	}
	if db.IsNotFoundError(err) {
		return a.create(key, ts), nil
	}
	return nil, fmt.Errorf("failed to load %s %s: %w", a.kind, key, err)
}

func (a aggregate[T]) store(ctx context.Context, doc *T) error {
	if err := a.save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save %s: %w", a.kind, err)
	}
	return nil
}

func (s *Service) protocolStats() aggregate[model.ProtocolStatDocument] {
	return aggregate[model.ProtocolStatDocument]{
		kind: "protocol stat",
		load: func(ctx context.Context, _ string) (*model.ProtocolStatDocument, error) {
			return s.db.GetProtocolStat(ctx)
		},
		create: func(string, uint64) *model.ProtocolStatDocument {
			return model.NewProtocolStat()
		},
		save: s.db.SaveProtocolStat,
	}
}

func (s *Service) dailyStats() aggregate[model.DailyProtocolStatDocument] {
	return aggregate[model.DailyProtocolStatDocument]{
		kind: "daily protocol stat",
		load: s.db.GetDailyProtocolStat,
		create: func(key string, ts uint64) *model.DailyProtocolStatDocument {
			return model.NewDailyProtocolStat(key, utils.DayStart(ts), ts)
		},
		save: s.db.SaveDailyProtocolStat,
	}
}

func (s *Service) activeLoans() aggregate[model.ActiveLoanDocument] {
	return aggregate[model.ActiveLoanDocument]{
		kind: "active loan",
		load: s.db.GetActiveLoan,
		create: func(key string, _ uint64) *model.ActiveLoanDocument {
			return model.NewActiveLoan(key)
		},
		save: s.db.SaveActiveLoan,
	}
}
