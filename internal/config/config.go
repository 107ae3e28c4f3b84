// Package config loads runtime configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the services read from the environment.
type Config struct {
	ServerPort string

	// StoreBackend selects the persistence collaborator:
	// "memory", "supabase" or "bigquery".
	StoreBackend string

	SupabaseURL string
	SupabaseKey string

	BigQueryProject string
	BigQueryDataset string

	// GCSBucket holds uploaded CSV files for async imports; empty
	// disables the import endpoints.
	GCSBucket string

	// GeminiModel is the chat-completion model; the genai client reads
	// its API key from its own environment variables.
	GeminiModel string

	CardsFile string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		BigQueryProject: os.Getenv("BIGQUERY_PROJECT"),
		BigQueryDataset: getEnv("BIGQUERY_DATASET", "rewards"),
		GCSBucket:       os.Getenv("GCS_BUCKET"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		CardsFile:       os.Getenv("CARDS_FILE"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
