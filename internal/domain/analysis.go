package domain

// CategoryStat accumulates spending within a single category.
type CategoryStat struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MerchantStat accumulates spending at a single merchant.
type MerchantStat struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Analysis summarizes a snapshot of transactions. All collections are
// freshly built per computation and never alias the input slice.
type Analysis struct {
	TotalSpending      float64                 `json:"totalSpending"`
	AverageTransaction float64                 `json:"averageTransaction"`
	CategoryBreakdown  map[string]CategoryStat `json:"categoryBreakdown"`
	MonthlySpending    map[string]float64      `json:"monthlySpending"` // keyed "YYYY-MM"
	TopMerchants       []MerchantStat          `json:"topMerchants"`    // at most 10, by total desc
	TotalTransactions  int                     `json:"totalTransactions"`
}
