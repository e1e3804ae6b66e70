// Package memdb is a map backed implementation of db.DbInterface used by the
// engine tests and by dry runs of the replay command.
package memdb

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

var _ db.DbInterface = (*Store)(nil)

type state struct {
	position        *types.LogPosition
	vaultActivities map[string]model.VaultActivityDocument
	snapshots       map[string]model.VaultStatusSnapshotDocument
	loanActivities  map[string]model.LoanActivityDocument
	protocolStat    *model.ProtocolStatDocument
	dailyStats      map[string]model.DailyProtocolStatDocument
	borrowers       map[string]model.BorrowerDocument
	activeLoans     map[string]model.ActiveLoanDocument
}

func newState() state {
	return state{
		vaultActivities: map[string]model.VaultActivityDocument{},
		snapshots:       map[string]model.VaultStatusSnapshotDocument{},
		loanActivities:  map[string]model.LoanActivityDocument{},
		dailyStats:      map[string]model.DailyProtocolStatDocument{},
		borrowers:       map[string]model.BorrowerDocument{},
		activeLoans:     map[string]model.ActiveLoanDocument{},
	}
}

// clone copies the maps. Documents are stored by value and their amounts
// are never mutated in place, so a shallow copy of each value is enough.
func (s state) clone() state {
	c := state{
		vaultActivities: maps.Clone(s.vaultActivities),
		snapshots:       maps.Clone(s.snapshots),
		loanActivities:  maps.Clone(s.loanActivities),
		dailyStats:      maps.Clone(s.dailyStats),
		borrowers:       maps.Clone(s.borrowers),
		activeLoans:     maps.Clone(s.activeLoans),
	}
	if s.position != nil {
		p := *s.position
		c.position = &p
	}
	if s.protocolStat != nil {
		p := *s.protocolStat
		c.protocolStat = &p
	}
	return c
}

type Store struct {
	// txMu serializes units of work, mu guards data
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
	// FailOn makes the named method return an error, used to simulate store
	// failures.
	FailOn map[string]error
}

func New() *Store {
	return &Store{
		data:   newState(),
		FailOn: map[string]error{},
	}
}

func (s *Store) fail(method string) error {
	if err, ok := s.FailOn[method]; ok {
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.fail("Ping")
}

// WithTransaction restores the state as it was before fn when fn fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) GetLastProcessedPosition(ctx context.Context) (*types.LogPosition, error) {
	if err := s.fail("GetLastProcessedPosition"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data.position == nil {
		return nil, nil
	}
	p := *s.data.position
	return &p, nil
}

func (s *Store) UpdateLastProcessedPosition(ctx context.Context, position types.LogPosition) error {
	if err := s.fail("UpdateLastProcessedPosition"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.position = &position
	return nil
}

// The helpers below take a selector instead of the map itself: maps are
// resolved under the lock since a rollback swaps the whole state.

func insert[T any](s *Store, method string, t func(*state) map[string]T, id string, doc *T) error {
	if err := s.fail(method); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%s: nil document", method)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := t(&s.data)
	if _, ok := m[id]; ok {
		return &db.DuplicateKeyError{
			Key:     id,
			Message: "record already exists",
		}
	}
	m[id] = *doc
	return nil
}

func upsert[T any](s *Store, method string, t func(*state) map[string]T, id string, doc *T) error {
	if err := s.fail(method); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%s: nil document", method)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t(&s.data)[id] = *doc
	return nil
}

func get[T any](s *Store, method string, t func(*state) map[string]T, id string) (*T, error) {
	if err := s.fail(method); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := t(&s.data)[id]
	if !ok {
		return nil, &db.NotFoundError{
			Key:     id,
			Message: "record not found",
		}
	}
	return &doc, nil
}

// list returns the matching values sorted by less, truncated to limit when
// limit is positive.
func list[T any](s *Store, method string, t func(*state) map[string]T, match func(T) bool, cmp func(a, b T) int, limit int64) ([]*T, error) {
	if err := s.fail(method); err != nil {
		return nil, err
	}
	s.mu.RLock()
	values := slices.Collect(maps.Values(t(&s.data)))
	s.mu.RUnlock()

	values = slices.DeleteFunc(values, func(v T) bool { return !match(v) })
	slices.SortFunc(values, cmp)
	if limit > 0 && int64(len(values)) > limit {
		values = values[:limit]
	}

	result := make([]*T, len(values))
	for i := range values {
		result[i] = &values[i]
	}
	return result, nil
}
