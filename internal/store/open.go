package store

import (
	"context"
	"fmt"

	"github.com/dvloznov/reward-tracker/internal/config"
)

// Open builds the Store selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("Open: supabase backend needs SUPABASE_URL and SUPABASE_KEY")
		}
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey)
	case "bigquery":
		if cfg.BigQueryProject == "" {
			return nil, fmt.Errorf("Open: bigquery backend needs BIGQUERY_PROJECT")
		}
		return NewBigQueryStore(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	default:
		return nil, fmt.Errorf("Open: unknown store backend %q", cfg.StoreBackend)
	}
}
