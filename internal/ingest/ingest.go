package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dvloznov/reward-tracker/internal/dates"
	"github.com/dvloznov/reward-tracker/internal/domain"
)

// Column aliases for each logical field, in resolution order. Header
// cells are lowercased and trimmed before matching, so "Transaction Date"
// and "transaction_date" land on the same field.
var (
	dateAliases      = []string{"date", "transaction_date", "transaction date"}
	nameAliases      = []string{"name", "merchant", "description", "vendor"}
	amountAliases    = []string{"amount", "amount_spent", "amount spent"}
	categoryAliases  = []string{"category", "categories", "type"}
	necessityAliases = []string{"necessity_score", "necessity score"}
)

// RowWarning records a data row that was skipped during ingestion.
type RowWarning struct {
	Row    int    `json:"row"` // 1-based data row number, header excluded
	Reason string `json:"reason"`
}

// ParseTransactions reads header-delimited CSV text and returns the
// normalized transactions plus a warning per skipped row. Individual bad
// rows never fail the batch; only input that cannot be read as CSV at
// all returns an error.
func ParseTransactions(r io.Reader) ([]domain.Transaction, []RowWarning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("ParseTransactions: reading header: %w", err)
	}
	columns := indexColumns(header)

	var (
		transactions []domain.Transaction
		warnings     []RowWarning
		rowNum       int
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("ParseTransactions: reading row %d: %w", rowNum+1, err)
		}
		if isEmptyRecord(record) {
			continue
		}
		rowNum++

		date := resolve(columns, record, dateAliases)
		name := resolve(columns, record, nameAliases)
		amount := resolve(columns, record, amountAliases)

		if date == "" || name == "" || amount == "" {
			warnings = append(warnings, RowWarning{Row: rowNum, Reason: "missing required fields"})
			continue
		}

		parsedAmount, err := ParseAmount(amount)
		if err != nil {
			warnings = append(warnings, RowWarning{Row: rowNum, Reason: fmt.Sprintf("invalid amount %q", amount)})
			continue
		}

		normalizedDate, err := dates.Normalize(date)
		if err != nil {
			warnings = append(warnings, RowWarning{Row: rowNum, Reason: fmt.Sprintf("invalid date %q", date)})
			continue
		}

		category := resolve(columns, record, categoryAliases)
		if category == "" {
			category = "Other"
		}

		transactions = append(transactions, domain.Transaction{
			ID:             uuid.NewString(),
			Date:           normalizedDate,
			Name:           name,
			Amount:         parsedAmount,
			Category:       category,
			NecessityScore: parseNecessityScore(resolve(columns, record, necessityAliases)),
		})
	}

	return transactions, warnings, nil
}

// ParseAmount strips everything that is not a digit, '.' or '-' (currency
// symbols, thousands separators) and parses the rest as a decimal.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return value, nil
}

// indexColumns maps each normalized header cell to its position. The
// first occurrence of a duplicated header wins.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}
	return columns
}

// resolve returns the trimmed cell of the first alias whose column is
// present. Column presence decides the match; an empty cell in a present
// column is returned as-is and handled by the caller.
func resolve(columns map[string]int, record []string, aliases []string) string {
	for _, alias := range aliases {
		if idx, ok := columns[alias]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
	}
	return ""
}

// parseNecessityScore is best-effort: the field is optional, so
// unparseable text yields absent rather than a skipped row.
func parseNecessityScore(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
