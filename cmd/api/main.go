package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/reward-tracker/internal/api/handlers"
	"github.com/dvloznov/reward-tracker/internal/api/middleware"
	"github.com/dvloznov/reward-tracker/internal/cards"
	"github.com/dvloznov/reward-tracker/internal/chat"
	"github.com/dvloznov/reward-tracker/internal/config"
	"github.com/dvloznov/reward-tracker/internal/jobs"
	"github.com/dvloznov/reward-tracker/internal/jobs/inmemory"
	"github.com/dvloznov/reward-tracker/internal/logger"
	"github.com/dvloznov/reward-tracker/internal/pipeline"
	"github.com/dvloznov/reward-tracker/internal/store"
)

func main() {
	// Initialize logger
	log := logger.New()

	cfg := config.Load()

	ctx := context.Background()

	// Open the transaction store
	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction store")
	}
	defer st.Close()

	log.Info().Str("backend", cfg.StoreBackend).Msg("Transaction store ready")

	// Load the card catalog
	catalog := cards.DefaultCatalog()
	if cfg.CardsFile != "" {
		catalog, err = cards.LoadFile(cfg.CardsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.CardsFile).Msg("Failed to load card catalog")
		}
		log.Info().Int("cards", len(catalog)).Str("file", cfg.CardsFile).Msg("Loaded card catalog")
	}

	// Chat is optional: without Gemini credentials the endpoint returns 503.
	var chatClient *chat.Client
	if os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		chatClient, err = chat.NewClient(ctx, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create chat client - chat endpoint disabled")
			chatClient = nil
		}
	} else {
		log.Warn().Msg("No Gemini API key configured - chat endpoint disabled")
	}

	if cfg.GCSBucket == "" {
		log.Warn().Msg("No GCS bucket configured - async imports disabled")
	}

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	// Start worker in background to process import jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		importJob, ok := job.(*jobs.ImportCSVJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", importJob.JobID).
			Str("import_id", importJob.ImportID).
			Str("gcs_uri", importJob.GCSURI).
			Msg("Processing import job")

		result, err := pipeline.ImportCSVFromGCS(ctx, pipeline.GCSStorage{}, st, importJob.GCSURI)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", importJob.JobID).
				Msg("Import failed")
			return err
		}
		importJob.SavedCount = result.SavedCount
		importJob.SkippedRows = result.SkippedRows

		log.Info().
			Str("job_id", importJob.JobID).
			Int("saved", result.SavedCount).
			Int("skipped", result.SkippedRows).
			Msg("Import completed")

		return nil
	}

	go func() {
		log.Info().Msg("Starting import worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Import worker stopped with error")
		}
	}()

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(st, log)
	analysisHandler := handlers.NewAnalysisHandler(st, log)
	optimizationHandler := handlers.NewOptimizationHandler(st, catalog, log)
	cardsHandler := handlers.NewCardsHandler(catalog)
	chatHandler := handlers.NewChatHandler(chatClient, st, log)
	importsHandler := handlers.NewImportsHandler(jobQueue, cfg.GCSBucket, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.ListTransactions(w, r)
		case http.MethodDelete:
			transactionsHandler.ClearTransactions(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.UploadCSV(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Analysis endpoints
	mux.HandleFunc("/api/analysis", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analysisHandler.GetAnalysis(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/analysis/chart", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analysisHandler.GetChart(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Optimization endpoints
	mux.HandleFunc("/api/optimization", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			optimizationHandler.GetOptimization(w, r)
		case http.MethodPost:
			optimizationHandler.PostOptimization(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Cards endpoint
	mux.HandleFunc("/api/cards", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			cardsHandler.ListCards(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Chat endpoint
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			chatHandler.Ask(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Imports endpoints
	mux.HandleFunc("/api/imports", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			importsHandler.CreateImport(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
