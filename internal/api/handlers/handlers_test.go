package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/reward-tracker/internal/cards"
	"github.com/dvloznov/reward-tracker/internal/domain"
	"github.com/dvloznov/reward-tracker/internal/jobs"
	"github.com/dvloznov/reward-tracker/internal/jobs/inmemory"
	"github.com/dvloznov/reward-tracker/internal/store"
)

const sampleCSV = "Date,Merchant,Amount,Category\n" +
	"2025-01-15,Whole Foods,54.25,Groceries\n" +
	"2025-01-20,Chipotle,12.75,Dining\n" +
	"2025-02-03,Shell,40.00,Gas\n"

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	_, err := st.SaveTransactions(context.Background(), []domain.Transaction{
		{ID: "1", Date: "2025-01-15", Name: "Whole Foods", Amount: 54.25, Category: "Groceries"},
		{ID: "2", Date: "2025-01-20", Name: "Chipotle", Amount: 12.75, Category: "Dining"},
		{ID: "3", Date: "2025-02-03", Name: "Shell", Amount: 40.00, Category: "Gas"},
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return st
}

func TestUploadCSV(t *testing.T) {
	st := store.NewMemoryStore()
	h := NewTransactionsHandler(st, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/upload", strings.NewReader(sampleCSV))
	rec := httptest.NewRecorder()

	h.UploadCSV(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Saved   int `json:"saved"`
		Skipped int `json:"skipped"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Saved != 3 || resp.Skipped != 0 {
		t.Errorf("saved=%d skipped=%d, want 3/0", resp.Saved, resp.Skipped)
	}

	saved, _ := st.FetchAllTransactions(context.Background())
	if len(saved) != 3 {
		t.Errorf("store holds %d transactions, want 3", len(saved))
	}
}

func TestUploadCSV_Malformed(t *testing.T) {
	h := NewTransactionsHandler(store.NewMemoryStore(), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/upload",
		strings.NewReader("Date,Name,Amount\n\"broken,1,2\n"))
	rec := httptest.NewRecorder()

	h.UploadCSV(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListTransactions(t *testing.T) {
	h := NewTransactionsHandler(seedStore(t), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()

	h.ListTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var transactions []domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &transactions); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(transactions) != 3 {
		t.Errorf("got %d transactions, want 3", len(transactions))
	}
	// Newest first.
	if transactions[0].Name != "Shell" {
		t.Errorf("first transaction = %s, want Shell", transactions[0].Name)
	}
}

func TestListTransactions_Empty(t *testing.T) {
	h := NewTransactionsHandler(store.NewMemoryStore(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ListTransactions(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestClearTransactions(t *testing.T) {
	st := seedStore(t)
	h := NewTransactionsHandler(st, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ClearTransactions(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	remaining, _ := st.FetchAllTransactions(context.Background())
	if len(remaining) != 0 {
		t.Errorf("%d transactions remain after clear", len(remaining))
	}
}

func TestGetAnalysis(t *testing.T) {
	h := NewAnalysisHandler(seedStore(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetAnalysis(rec, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result domain.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.TotalTransactions != 3 {
		t.Errorf("TotalTransactions = %d, want 3", result.TotalTransactions)
	}
	if result.TotalSpending != 107 {
		t.Errorf("TotalSpending = %v, want 107", result.TotalSpending)
	}
}

func TestGetChart(t *testing.T) {
	h := NewAnalysisHandler(seedStore(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetChart(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/chart?kind=monthly", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s", ct)
	}
}

func TestGetChart_NoData(t *testing.T) {
	h := NewAnalysisHandler(store.NewMemoryStore(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetChart(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/chart", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetChart_UnknownKind(t *testing.T) {
	h := NewAnalysisHandler(seedStore(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetChart(rec, httptest.NewRequest(http.MethodGet, "/api/analysis/chart?kind=sparkline", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetOptimization(t *testing.T) {
	h := NewOptimizationHandler(seedStore(t), cards.DefaultCatalog(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetOptimization(rec, httptest.NewRequest(http.MethodGet, "/api/optimization", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result domain.OptimizationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(result.CardAnalysis) != 3 {
		t.Errorf("got %d card analyses, want 3", len(result.CardAnalysis))
	}
	if result.TotalSpending != 107 {
		t.Errorf("TotalSpending = %v, want 107", result.TotalSpending)
	}
}

func TestGetOptimization_NoTransactions(t *testing.T) {
	h := NewOptimizationHandler(store.NewMemoryStore(), cards.DefaultCatalog(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetOptimization(rec, httptest.NewRequest(http.MethodGet, "/api/optimization", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "null" {
		t.Errorf("body = %s, want null", got)
	}
}

func TestPostOptimization_InvalidCard(t *testing.T) {
	h := NewOptimizationHandler(seedStore(t), cards.DefaultCatalog(), zerolog.Nop())

	body := `{"cards":[{"name":"Bad","annualFee":-5}]}`
	rec := httptest.NewRecorder()
	h.PostOptimization(rec, httptest.NewRequest(http.MethodPost, "/api/optimization", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPostOptimization_CustomCards(t *testing.T) {
	h := NewOptimizationHandler(seedStore(t), nil, zerolog.Nop())

	body := `{"cards":[{"name":"Flat Two","categories":{"Other":2}}]}`
	rec := httptest.NewRecorder()
	h.PostOptimization(rec, httptest.NewRequest(http.MethodPost, "/api/optimization", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result domain.OptimizationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(result.CardAnalysis) != 1 || result.CardAnalysis[0].Card.Name != "Flat Two" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if math.Abs(result.CardAnalysis[0].CashbackEarned-2.14) > 1e-9 {
		t.Errorf("CashbackEarned = %v, want 2.14", result.CardAnalysis[0].CashbackEarned)
	}
}

func TestListCards(t *testing.T) {
	h := NewCardsHandler(cards.DefaultCatalog())

	rec := httptest.NewRecorder()
	h.ListCards(rec, httptest.NewRequest(http.MethodGet, "/api/cards", nil))

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}
}

func TestChat_NotConfigured(t *testing.T) {
	h := NewChatHandler(nil, store.NewMemoryStore(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"hi"}`)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCreateImport_NotConfigured(t *testing.T) {
	h := NewImportsHandler(nil, "", zerolog.Nop())

	rec := httptest.NewRecorder()
	h.CreateImport(rec, httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(sampleCSV)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestJobsHandler(t *testing.T) {
	jobStore := inmemory.NewStore()
	ctx := context.Background()
	if err := jobStore.SaveJob(ctx, &jobs.ImportCSVJob{
		JobID:    "job-1",
		ImportID: "imp-1",
		Status:   jobs.JobStatusCompleted,
	}); err != nil {
		t.Fatalf("seeding job store: %v", err)
	}

	h := NewJobsHandler(jobStore, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil), "job-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("GetJob status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil), "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing job status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/jobs?import_id=imp-1", nil))
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}
