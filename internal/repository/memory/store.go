// Package memory is an in-process implementation of the repositories,
// used by STORAGE=memory and by tests. It enforces the same constraints
// as the Postgres schema: unique email, foreign keys and cascades.
package memory

import (
	"context"
	"sync"
	"time"

	"allmanager/internal/domain/models"
	"allmanager/internal/domain/repositories"
)

// Store holds every table behind one lock.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time

	users        map[int64]*models.User
	projects     map[int64]*models.Project
	tasks        map[int64]*models.Task
	leads        map[int64]*models.Lead
	notes        map[int64]*models.Note
	requirements map[int64]*models.Requirement

	nextID map[string]int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC() },
		users:        map[int64]*models.User{},
		projects:     map[int64]*models.Project{},
		tasks:        map[int64]*models.Task{},
		leads:        map[int64]*models.Lead{},
		notes:        map[int64]*models.Note{},
		requirements: map[int64]*models.Requirement{},
		nextID:       map[string]int64{},
	}
}

// id returns the next sequence value for table. Caller holds mu.
func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type txKey struct{}

// TransactionManager serializes transactions. Writes are applied directly,
// so a failed fn does not roll back earlier writes.
type TransactionManager struct {
	store *Store
}

func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
