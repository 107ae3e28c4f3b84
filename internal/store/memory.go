package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// MemoryStore keeps transactions in memory. It backs local development
// and tests; data is lost on restart.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveTransactions implements the Store interface.
func (s *MemoryStore) SaveTransactions(ctx context.Context, transactions []domain.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, transactions...)
	return len(transactions), nil
}

// FetchAllTransactions implements the Store interface. The returned
// slice is a copy sorted newest date first, matching the remote
// backends.
func (s *MemoryStore) FetchAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]domain.Transaction, len(s.transactions))
	copy(snapshot, s.transactions)
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Date > snapshot[j].Date
	})
	return snapshot, nil
}

// ClearTransactions implements the Store interface.
func (s *MemoryStore) ClearTransactions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = nil
	return nil
}

// Close implements the Store interface.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
