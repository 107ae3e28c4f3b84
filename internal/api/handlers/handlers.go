package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/reward-tracker/internal/analysis"
	"github.com/dvloznov/reward-tracker/internal/api/middleware"
	"github.com/dvloznov/reward-tracker/internal/cards"
	"github.com/dvloznov/reward-tracker/internal/charts"
	"github.com/dvloznov/reward-tracker/internal/chat"
	"github.com/dvloznov/reward-tracker/internal/domain"
	"github.com/dvloznov/reward-tracker/internal/gcsfiles"
	"github.com/dvloznov/reward-tracker/internal/ingest"
	"github.com/dvloznov/reward-tracker/internal/jobs"
	"github.com/dvloznov/reward-tracker/internal/optimizer"
	"github.com/dvloznov/reward-tracker/internal/store"
)

// maxUploadBytes caps CSV upload size at 10 MB.
const maxUploadBytes = 10 << 20

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store store.Store
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(st store.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store: st,
		log:   log,
	}
}

// UploadCSV handles POST /api/transactions/upload. The CSV can arrive
// either as a multipart "file" field or as the raw request body.
func (h *TransactionsHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	body := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}

	transactions, warnings, err := ingest.ParseTransactions(body)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to parse CSV upload")
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse CSV: %v", err))
		return
	}

	saved, err := h.store.SaveTransactions(ctx, transactions)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to save transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transactions")
		return
	}

	h.log.Info().
		Int("saved", saved).
		Int("skipped", len(warnings)).
		Msg("CSV upload processed")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"saved":    saved,
		"skipped":  len(warnings),
		"warnings": warnings,
	})
}

// ListTransactions handles GET /api/transactions.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := h.store.FetchAllTransactions(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	// Return array directly for frontend compatibility
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, transactions)
}

// ClearTransactions handles DELETE /api/transactions.
func (h *TransactionsHandler) ClearTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.ClearTransactions(ctx); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to clear transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// AnalysisHandler handles spending analysis endpoints.
type AnalysisHandler struct {
	store  store.Store
	charts *charts.Generator
	log    zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(st store.Store, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		store:  st,
		charts: charts.NewGenerator(),
		log:    log,
	}
}

// GetAnalysis handles GET /api/analysis.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := h.store.FetchAllTransactions(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, analysis.Compute(transactions))
}

// GetChart handles GET /api/analysis/chart?kind=monthly|categories|merchants.
func (h *AnalysisHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := h.store.FetchAllTransactions(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	result := analysis.Compute(transactions)

	var png []byte
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "", "monthly":
		png, err = h.charts.GenerateMonthlySpendingChart(&result)
	case "categories":
		png, err = h.charts.GenerateCategoryPieChart(&result)
	case "merchants":
		png, err = h.charts.GenerateTopMerchantsChart(&result)
	default:
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown chart kind %q", kind))
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("kind", kind).Msg("Failed to render chart")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}
	if png == nil {
		middleware.WriteError(w, http.StatusNotFound, "Not enough data to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// OptimizationHandler handles card optimization endpoints.
type OptimizationHandler struct {
	store   store.Store
	catalog []domain.CreditCard
	log     zerolog.Logger
}

// NewOptimizationHandler creates a new optimization handler.
func NewOptimizationHandler(st store.Store, catalog []domain.CreditCard, log zerolog.Logger) *OptimizationHandler {
	return &OptimizationHandler{
		store:   st,
		catalog: catalog,
		log:     log,
	}
}

// GetOptimization handles GET /api/optimization using the default card
// catalog. With no transactions or no cards the body is JSON null.
func (h *OptimizationHandler) GetOptimization(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.catalog)
}

// PostOptimization handles POST /api/optimization with a custom card
// list in the request body.
func (h *OptimizationHandler) PostOptimization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cards []domain.CreditCard `json:"cards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for i := range req.Cards {
		if err := cards.Validate(&req.Cards[i]); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid card: %v", err))
			return
		}
	}

	h.respond(w, r, req.Cards)
}

func (h *OptimizationHandler) respond(w http.ResponseWriter, r *http.Request, cards []domain.CreditCard) {
	ctx := r.Context()

	transactions, err := h.store.FetchAllTransactions(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, optimizer.Compute(transactions, cards))
}

// CardsHandler handles the card catalog endpoint.
type CardsHandler struct {
	catalog []domain.CreditCard
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(catalog []domain.CreditCard) *CardsHandler {
	return &CardsHandler{catalog: catalog}
}

// ListCards handles GET /api/cards.
func (h *CardsHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cards": h.catalog,
		"count": len(h.catalog),
	})
}

// ChatHandler handles the spending Q&A endpoint.
type ChatHandler struct {
	client *chat.Client
	store  store.Store
	log    zerolog.Logger
}

// NewChatHandler creates a new chat handler. client may be nil when no
// Gemini credentials are configured; the endpoint then returns 503.
func NewChatHandler(client *chat.Client, st store.Store, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		client: client,
		store:  st,
		log:    log,
	}
}

// Ask handles POST /api/chat.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	ctx := r.Context()

	transactions, err := h.store.FetchAllTransactions(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to fetch transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	result := analysis.Compute(transactions)
	answer, err := h.client.Ask(ctx, req.Question, &result)
	if err != nil {
		h.log.Error().Err(err).Msg("Chat request failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to get an answer")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// ImportsHandler handles async CSV imports via GCS and the job queue.
type ImportsHandler struct {
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewImportsHandler creates a new imports handler. bucket may be empty
// when GCS is not configured; the endpoint then returns 503.
func NewImportsHandler(publisher jobs.Publisher, bucket string, log zerolog.Logger) *ImportsHandler {
	return &ImportsHandler{
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// CreateImport handles POST /api/imports. It stores the CSV in GCS and
// enqueues an import job; processing happens asynchronously.
func (h *ImportsHandler) CreateImport(w http.ResponseWriter, r *http.Request) {
	if h.bucket == "" {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Imports are not configured")
		return
	}

	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	importID := uuid.NewString()
	objectName := fmt.Sprintf("imports/%s/%s.csv", time.Now().Format("2006/01/02"), importID)

	gcsURI, err := gcsfiles.Upload(ctx, h.bucket, objectName, r.Body)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to upload CSV to GCS")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store CSV")
		return
	}

	job := &jobs.ImportCSVJob{
		ImportID: importID,
		GCSURI:   gcsURI,
	}
	if err := h.publisher.PublishImportCSV(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue import job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue import job")
		return
	}

	h.log.Info().
		Str("job_id", job.JobID).
		Str("import_id", importID).
		Str("gcs_uri", gcsURI).
		Msg("Import job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":    job.JobID,
		"import_id": importID,
		"gcs_uri":   gcsURI,
		"status":    string(job.Status),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	filter := jobs.JobFilter{
		ImportID: query.Get("import_id"),
		Status:   jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
