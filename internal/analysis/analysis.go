package analysis

import (
	"math"
	"sort"

	"github.com/dvloznov/reward-tracker/internal/dates"
	"github.com/dvloznov/reward-tracker/internal/domain"
)

// Compute summarizes a transaction snapshot. It is a pure function: the
// result shares no memory with the input, and the same snapshot always
// produces the same analysis.
func Compute(transactions []domain.Transaction) domain.Analysis {
	analysis := domain.Analysis{
		CategoryBreakdown: make(map[string]domain.CategoryStat),
		MonthlySpending:   make(map[string]float64),
		TopMerchants:      []domain.MerchantStat{},
		TotalTransactions: len(transactions),
	}
	if len(transactions) == 0 {
		return analysis
	}

	// Merchant grouping keeps first-seen order so that equal totals rank
	// deterministically after the stable sort.
	merchantOrder := make([]string, 0)
	merchants := make(map[string]*domain.MerchantStat)

	for _, tx := range transactions {
		amount := math.Abs(tx.Amount)
		analysis.TotalSpending += amount

		category := tx.Category
		if category == "" {
			category = "Other"
		}
		stat := analysis.CategoryBreakdown[category]
		stat.Total += amount
		stat.Count++
		analysis.CategoryBreakdown[category] = stat

		// Dates are normalized at ingestion, so this reduces to
		// truncation; the shared routine still guards against snapshots
		// that bypassed the normalizer.
		if month, err := dates.MonthKey(tx.Date); err == nil {
			analysis.MonthlySpending[month] += amount
		}

		m, ok := merchants[tx.Name]
		if !ok {
			m = &domain.MerchantStat{Name: tx.Name}
			merchants[tx.Name] = m
			merchantOrder = append(merchantOrder, tx.Name)
		}
		m.Total += amount
		m.Count++
	}

	analysis.AverageTransaction = analysis.TotalSpending / float64(len(transactions))

	top := make([]domain.MerchantStat, 0, len(merchantOrder))
	for _, name := range merchantOrder {
		top = append(top, *merchants[name])
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Total > top[j].Total
	})
	if len(top) > 10 {
		top = top[:10]
	}
	analysis.TopMerchants = top

	return analysis
}
