// Package pipeline runs the CSV import flow: fetch the file from GCS,
// parse it into transactions, and persist the usable rows.
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dvloznov/reward-tracker/internal/domain"
	"github.com/dvloznov/reward-tracker/internal/gcsfiles"
	"github.com/dvloznov/reward-tracker/internal/ingest"
	"github.com/dvloznov/reward-tracker/internal/store"
)

// Storage is an interface for fetching import files.
// This abstraction enables mocking in tests and swapping storage backends.
type Storage interface {
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}

// GCSStorage is the concrete Storage backed by Google Cloud Storage.
type GCSStorage struct{}

// Fetch implements the Storage interface.
func (GCSStorage) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	return gcsfiles.Fetch(ctx, gcsURI)
}

// Step represents a single step in the import pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	GCSURI       string
	CSVBytes     []byte
	Transactions []domain.Transaction
	Warnings     []ingest.RowWarning
	SavedCount   int
}

// FetchCSVStep downloads the CSV bytes from storage.
type FetchCSVStep struct {
	Storage Storage
}

func (s *FetchCSVStep) Execute(ctx context.Context, state *State) error {
	data, err := s.Storage.Fetch(ctx, state.GCSURI)
	if err != nil {
		return err
	}
	state.CSVBytes = data
	return nil
}

// ParseRowsStep parses the CSV bytes into transactions, collecting
// per-row warnings for rows that could not be used.
type ParseRowsStep struct{}

func (s *ParseRowsStep) Execute(ctx context.Context, state *State) error {
	transactions, warnings, err := ingest.ParseTransactions(bytes.NewReader(state.CSVBytes))
	if err != nil {
		return err
	}
	state.Transactions = transactions
	state.Warnings = warnings
	return nil
}

// SaveTransactionsStep persists the parsed transactions.
type SaveTransactionsStep struct {
	Store store.Store
}

func (s *SaveTransactionsStep) Execute(ctx context.Context, state *State) error {
	count, err := s.Store.SaveTransactions(ctx, state.Transactions)
	if err != nil {
		return err
	}
	state.SavedCount = count
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewImportPipeline creates the standard 3-step pipeline for importing
// a transaction CSV.
func NewImportPipeline(storage Storage, st store.Store) *Pipeline {
	return NewPipeline(
		&FetchCSVStep{Storage: storage},
		&ParseRowsStep{},
		&SaveTransactionsStep{Store: st},
	)
}

// Result summarizes a completed import.
type Result struct {
	SavedCount  int
	SkippedRows int
	Warnings    []ingest.RowWarning
}

// ImportCSVFromGCS runs the full import pipeline for a single CSV file
// stored in GCS. gcsURI should look like "gs://bucket/path/to/file.csv".
func ImportCSVFromGCS(ctx context.Context, storage Storage, st store.Store, gcsURI string) (*Result, error) {
	state := &State{GCSURI: gcsURI}
	if err := NewImportPipeline(storage, st).Execute(ctx, state); err != nil {
		return nil, err
	}
	return &Result{
		SavedCount:  state.SavedCount,
		SkippedRows: len(state.Warnings),
		Warnings:    state.Warnings,
	}, nil
}
