package domain

// CategoryCashback is the projected reward of one card in one category.
type CategoryCashback struct {
	Category string  `json:"category"`
	Spending float64 `json:"spending"`
	Rate     float64 `json:"rate"` // percent
	Cashback float64 `json:"cashback"`
}

// CardAnalysis is the projected value of a single card against a
// spending snapshot.
type CardAnalysis struct {
	Card           CreditCard `json:"card"`
	CashbackEarned float64    `json:"cashbackEarned"`
	// TotalValueBack is cashback plus signup bonus, before the fee.
	TotalValueBack float64 `json:"totalValueBack"`
	// NetValue is TotalValueBack minus the annual fee.
	NetValue      float64 `json:"netValue"`
	EffectiveRate float64 `json:"effectiveRate"` // net value as percent of spend, 0 when spend is 0
	// CategoryBreakdown is sorted by cashback descending.
	CategoryBreakdown []CategoryCashback `json:"categoryBreakdown"`
}

// OptimizationResult ranks a card set against a spending snapshot.
// CardAnalysis is ordered by net value descending, then cashback earned
// descending, then input order.
type OptimizationResult struct {
	CardAnalysis     []CardAnalysis     `json:"cardAnalysis"`
	CategorySpending map[string]float64 `json:"categorySpending"`
	TotalSpending    float64            `json:"totalSpending"`
}
