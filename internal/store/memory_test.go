package store

import (
	"context"
	"testing"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	count, err := s.SaveTransactions(ctx, []domain.Transaction{
		{ID: "1", Date: "2025-01-01", Name: "a", Amount: 10, Category: "A"},
		{ID: "2", Date: "2025-03-01", Name: "b", Amount: 20, Category: "B"},
		{ID: "3", Date: "2025-02-01", Name: "c", Amount: 30, Category: "C"},
	})
	if err != nil {
		t.Fatalf("SaveTransactions returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("saved count = %d, want 3", count)
	}

	fetched, err := s.FetchAllTransactions(ctx)
	if err != nil {
		t.Fatalf("FetchAllTransactions returned error: %v", err)
	}
	if len(fetched) != 3 {
		t.Fatalf("fetched %d transactions, want 3", len(fetched))
	}

	wantOrder := []string{"2", "3", "1"} // newest date first
	for i, id := range wantOrder {
		if fetched[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, fetched[i].ID, id)
		}
	}

	// The snapshot is a copy: mutating it must not affect the store.
	fetched[0].Name = "mutated"
	again, _ := s.FetchAllTransactions(ctx)
	if again[0].Name == "mutated" {
		t.Error("fetched snapshot aliases store memory")
	}

	if err := s.ClearTransactions(ctx); err != nil {
		t.Fatalf("ClearTransactions returned error: %v", err)
	}
	empty, _ := s.FetchAllTransactions(ctx)
	if len(empty) != 0 {
		t.Errorf("after clear, fetched %d transactions, want 0", len(empty))
	}
}
