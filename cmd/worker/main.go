package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction store")
	}
	defer st.Close()

	// Initialize job store and queue
	// In production, this would be replaced with Cloud Tasks or Pub/Sub
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Str("backend", cfg.StoreBackend).Msg("Starting worker service")

	// Create job handler that processes import jobs
	handler := func(ctx context.Context, job jobs.Job) error {
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

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
