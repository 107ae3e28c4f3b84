package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// SupabaseStore persists transactions in a Supabase "transactions"
// table via the PostgREST API.
type SupabaseStore struct {
	client *supabase.Client
}

// supabaseRow mirrors the transactions table schema.
type supabaseRow struct {
	ID             string   `json:"id,omitempty"`
	Date           string   `json:"date"`
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	Category       string   `json:"category"`
	NecessityScore *float64 `json:"necessity_score"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// NewSupabaseStore creates a store backed by the given Supabase project.
func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("NewSupabaseStore: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

// SaveTransactions implements the Store interface.
func (s *SupabaseStore) SaveTransactions(ctx context.Context, transactions []domain.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	rows := make([]supabaseRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, supabaseRow{
			ID:             tx.ID,
			Date:           tx.Date,
			Name:           tx.Name,
			Amount:         tx.Amount,
			Category:       tx.Category,
			NecessityScore: tx.NecessityScore,
			CreatedAt:      now,
		})
	}

	_, _, err := s.client.From("transactions").Insert(rows, false, "", "", "").Execute()
	if err != nil {
		return 0, fmt.Errorf("SaveTransactions: %w", err)
	}
	return len(transactions), nil
}

// FetchAllTransactions implements the Store interface.
func (s *SupabaseStore) FetchAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	data, _, err := s.client.From("transactions").
		Select("*", "", false).
		Order("date.desc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("FetchAllTransactions: %w", err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("FetchAllTransactions: parsing response: %w", err)
	}

	transactions := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, domain.Transaction{
			ID:             row.ID,
			Date:           row.Date,
			Name:           row.Name,
			Amount:         row.Amount,
			Category:       row.Category,
			NecessityScore: row.NecessityScore,
		})
	}
	return transactions, nil
}

// ClearTransactions implements the Store interface. PostgREST refuses an
// unfiltered delete, so the filter matches every real row ID.
func (s *SupabaseStore) ClearTransactions(ctx context.Context) error {
	_, _, err := s.client.From("transactions").
		Delete("", "").
		Neq("id", "00000000-0000-0000-0000-000000000000").
		Execute()
	if err != nil {
		return fmt.Errorf("ClearTransactions: %w", err)
	}
	return nil
}

// Close implements the Store interface.
func (s *SupabaseStore) Close() error {
	return nil
}

var _ Store = (*SupabaseStore)(nil)
