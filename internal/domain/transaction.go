package domain

// Transaction is one normalized spending record. It is produced by the
// ingestion normalizer (or loaded from the store already normalized) and
// is read-only input to analysis and optimization.
type Transaction struct {
	ID   string `json:"id"`
	Date string `json:"date"` // always "YYYY-MM-DD"
	Name string `json:"name"`
	// Amount keeps the sign the source data carried; consumers aggregate
	// on its absolute value.
	Amount   float64 `json:"amount"`
	Category string  `json:"category"` // "Other" when the source had none

	// NecessityScore is an optional [0,1] rating; nil when the source
	// column was missing or unparseable.
	NecessityScore *float64 `json:"necessity_score,omitempty"`
}
