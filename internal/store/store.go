// Package store defines the persistence collaborator for transaction
// snapshots and its backends. The computational core never talks to a
// backend directly; it only consumes the slices a Store returns.
package store

import (
	"context"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// Store is the narrow persistence contract the rest of the system
// depends on: save a batch, fetch the full snapshot, clear everything.
// Backend failures are returned as errors and passed upward untouched;
// no retrying happens at this layer.
type Store interface {
	// SaveTransactions persists a batch and returns how many rows were
	// written.
	SaveTransactions(ctx context.Context, transactions []domain.Transaction) (int, error)

	// FetchAllTransactions returns the complete stored snapshot, newest
	// date first.
	FetchAllTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ClearTransactions removes every stored transaction.
	ClearTransactions(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
