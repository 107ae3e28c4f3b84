package notionsync

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// MockNotionService is a mock implementation of NotionService for testing.
type MockNotionService struct {
	CreatePageFunc    func(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)
	QueryDatabaseFunc func(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	DeletePageFunc    func(ctx context.Context, pageID string) error
}

func (m *MockNotionService) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	if m.CreatePageFunc != nil {
		return m.CreatePageFunc(ctx, databaseID, properties)
	}
	return &notionapi.Page{}, nil
}

func (m *MockNotionService) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if m.QueryDatabaseFunc != nil {
		return m.QueryDatabaseFunc(ctx, databaseID, filter)
	}
	return &notionapi.DatabaseQueryResponse{}, nil
}

func (m *MockNotionService) DeletePage(ctx context.Context, pageID string) error {
	if m.DeletePageFunc != nil {
		return m.DeletePageFunc(ctx, pageID)
	}
	return nil
}

func pageWithTransactionID(pageID, txID string) notionapi.Page {
	return notionapi.Page{
		ID: notionapi.ObjectID(pageID),
		Properties: notionapi.Properties{
			"Transaction ID": &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: txID}},
			},
		},
	}
}

func TestSyncTransactions(t *testing.T) {
	ctx := context.Background()

	existing := []notionapi.Page{
		pageWithTransactionID("page-1", "tx-1"), // still valid, skip
		pageWithTransactionID("page-2", "tx-gone"), // stale, delete
	}

	var createdIDs []string
	var deletedPages []string

	mock := &MockNotionService{
		QueryDatabaseFunc: func(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
			return &notionapi.DatabaseQueryResponse{Results: existing, HasMore: false}, nil
		},
		CreatePageFunc: func(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
			title := properties["Transaction ID"].(notionapi.RichTextProperty)
			createdIDs = append(createdIDs, title.RichText[0].Text.Content)
			return &notionapi.Page{}, nil
		},
		DeletePageFunc: func(ctx context.Context, pageID string) error {
			deletedPages = append(deletedPages, pageID)
			return nil
		},
	}

	transactions := []domain.Transaction{
		{ID: "tx-1", Date: "2025-01-15", Name: "Coffee", Amount: 4.5, Category: "Dining"},
		{ID: "tx-2", Date: "2025-01-16", Name: "Groceries", Amount: 60, Category: "Groceries"},
	}

	result, err := SyncTransactions(ctx, mock, "db-id", transactions, false)
	if err != nil {
		t.Fatalf("SyncTransactions returned error: %v", err)
	}

	if result.Created != 1 || result.Skipped != 1 || result.Deleted != 1 {
		t.Errorf("result = %+v, want created=1 skipped=1 deleted=1", result)
	}
	if len(createdIDs) != 1 || createdIDs[0] != "tx-2" {
		t.Errorf("created pages for %v, want [tx-2]", createdIDs)
	}
	if len(deletedPages) != 1 || deletedPages[0] != "page-2" {
		t.Errorf("deleted pages %v, want [page-2]", deletedPages)
	}
}

func TestSyncTransactions_DryRun(t *testing.T) {
	mock := &MockNotionService{
		QueryDatabaseFunc: func(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
			return &notionapi.DatabaseQueryResponse{
				Results: []notionapi.Page{pageWithTransactionID("page-1", "stale")},
			}, nil
		},
		CreatePageFunc: func(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
			t.Fatal("CreatePage called during dry run")
			return nil, nil
		},
		DeletePageFunc: func(ctx context.Context, pageID string) error {
			t.Fatal("DeletePage called during dry run")
			return nil
		},
	}

	result, err := SyncTransactions(context.Background(), mock, "db-id",
		[]domain.Transaction{{ID: "tx-1", Date: "2025-01-01", Name: "a", Amount: 1}}, true)
	if err != nil {
		t.Fatalf("SyncTransactions returned error: %v", err)
	}
	if result.Created != 1 || result.Deleted != 1 {
		t.Errorf("result = %+v, want created=1 deleted=1", result)
	}
}

func TestTransactionToNotionProperties(t *testing.T) {
	score := 3.5
	tx := domain.Transaction{
		ID:             "tx-9",
		Date:           "2025-02-01",
		Name:           "Shell",
		Amount:         -40.25,
		Category:       "Gas",
		NecessityScore: &score,
	}

	props := TransactionToNotionProperties(tx)

	title := props["Name"].(notionapi.TitleProperty)
	if title.Title[0].Text.Content != "Shell" {
		t.Errorf("Name = %q", title.Title[0].Text.Content)
	}

	amount := props["Amount"].(notionapi.NumberProperty)
	if amount.Number != -40.25 {
		t.Errorf("Amount = %v", amount.Number)
	}

	category := props["Category"].(notionapi.SelectProperty)
	if category.Select.Name != "Gas" {
		t.Errorf("Category = %q", category.Select.Name)
	}

	date := props["Date"].(notionapi.DateProperty)
	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !time.Time(*date.Date.Start).Equal(want) {
		t.Errorf("Date = %v, want %v", time.Time(*date.Date.Start), want)
	}

	necessity := props["Necessity Score"].(notionapi.NumberProperty)
	if necessity.Number != 3.5 {
		t.Errorf("Necessity Score = %v", necessity.Number)
	}
}

func TestTransactionToNotionProperties_Minimal(t *testing.T) {
	props := TransactionToNotionProperties(domain.Transaction{ID: "tx-1", Name: "x", Date: "not-a-date"})

	if _, ok := props["Date"]; ok {
		t.Error("unparseable date should not produce a Date property")
	}
	if _, ok := props["Category"]; ok {
		t.Error("empty category should not produce a Category property")
	}
	if _, ok := props["Necessity Score"]; ok {
		t.Error("nil score should not produce a Necessity Score property")
	}
}
