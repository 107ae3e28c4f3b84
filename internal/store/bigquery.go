package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

const transactionsTable = "transactions"

// BigQueryStore persists transactions in a BigQuery table. It holds a
// shared client so each operation does not open a new connection.
type BigQueryStore struct {
	client  *bigquery.Client
	project string
	dataset string
}

// transactionRow maps a transaction onto the BigQuery schema created by
// cmd/migrate.
type transactionRow struct {
	TransactionID  string               `bigquery:"transaction_id"`
	TxnDate        civil.Date           `bigquery:"txn_date"`
	Name           string               `bigquery:"name"`
	Amount         float64              `bigquery:"amount"`
	Category       string               `bigquery:"category"`
	NecessityScore bigquery.NullFloat64 `bigquery:"necessity_score"`
	CreatedTS      time.Time            `bigquery:"created_ts"`
}

// NewBigQueryStore creates a store backed by the given project and
// dataset.
func NewBigQueryStore(ctx context.Context, project, dataset string) (*BigQueryStore, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryStore: creating client: %w", err)
	}
	return &BigQueryStore{client: client, project: project, dataset: dataset}, nil
}

// SaveTransactions implements the Store interface.
func (s *BigQueryStore) SaveTransactions(ctx context.Context, transactions []domain.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	rows := make([]*transactionRow, 0, len(transactions))
	now := time.Now()
	for _, tx := range transactions {
		date, err := civil.ParseDate(tx.Date)
		if err != nil {
			return 0, fmt.Errorf("SaveTransactions: transaction %s has invalid date %q: %w", tx.ID, tx.Date, err)
		}
		row := &transactionRow{
			TransactionID: tx.ID,
			TxnDate:       date,
			Name:          tx.Name,
			Amount:        tx.Amount,
			Category:      tx.Category,
			CreatedTS:     now,
		}
		if tx.NecessityScore != nil {
			row.NecessityScore = bigquery.NullFloat64{Float64: *tx.NecessityScore, Valid: true}
		}
		rows = append(rows, row)
	}

	inserter := s.client.DatasetInProject(s.project, s.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("SaveTransactions: inserting rows: %w", err)
	}
	return len(rows), nil
}

// FetchAllTransactions implements the Store interface.
func (s *BigQueryStore) FetchAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT transaction_id, txn_date, name, amount, category, necessity_score
		FROM %s.%s.%s
		ORDER BY txn_date DESC
	`, s.project, s.dataset, transactionsTable))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchAllTransactions: running query: %w", err)
	}

	var transactions []domain.Transaction
	for {
		var row transactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("FetchAllTransactions: reading row: %w", err)
		}

		tx := domain.Transaction{
			ID:       row.TransactionID,
			Date:     row.TxnDate.String(),
			Name:     row.Name,
			Amount:   row.Amount,
			Category: row.Category,
		}
		if row.NecessityScore.Valid {
			score := row.NecessityScore.Float64
			tx.NecessityScore = &score
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// ClearTransactions implements the Store interface.
func (s *BigQueryStore) ClearTransactions(ctx context.Context) error {
	q := s.client.Query(fmt.Sprintf(`DELETE FROM %s.%s.%s WHERE true`, s.project, s.dataset, transactionsTable))

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("ClearTransactions: running delete: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("ClearTransactions: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("ClearTransactions: job error: %w", err)
	}
	return nil
}

// Close implements the Store interface.
func (s *BigQueryStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ Store = (*BigQueryStore)(nil)
