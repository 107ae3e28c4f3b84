package optimizer

import (
	"math"
	"sort"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// Compute ranks a set of reward cards against a spending snapshot.
// It returns nil when either input is empty: optimization needs both a
// spending pattern and at least one candidate card, and the absence of a
// result is not an error. Inputs are never mutated.
func Compute(transactions []domain.Transaction, cards []domain.CreditCard) *domain.OptimizationResult {
	if len(transactions) == 0 || len(cards) == 0 {
		return nil
	}

	// First-seen category order keeps tie-breaking deterministic when two
	// categories earn identical cashback.
	categoryOrder := make([]string, 0)
	categorySpending := make(map[string]float64)
	totalSpending := 0.0

	for _, tx := range transactions {
		category := tx.Category
		if category == "" {
			category = "Other"
		}
		if _, seen := categorySpending[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		amount := math.Abs(tx.Amount)
		categorySpending[category] += amount
		totalSpending += amount
	}

	analyses := make([]domain.CardAnalysis, 0, len(cards))
	for _, card := range cards {
		analyses = append(analyses, analyzeCard(card, categoryOrder, categorySpending, totalSpending))
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		if analyses[i].NetValue != analyses[j].NetValue {
			return analyses[i].NetValue > analyses[j].NetValue
		}
		return analyses[i].CashbackEarned > analyses[j].CashbackEarned
	})

	return &domain.OptimizationResult{
		CardAnalysis:     analyses,
		CategorySpending: categorySpending,
		TotalSpending:    totalSpending,
	}
}

func analyzeCard(card domain.CreditCard, categoryOrder []string, categorySpending map[string]float64, totalSpending float64) domain.CardAnalysis {
	breakdown := make([]domain.CategoryCashback, 0, len(categoryOrder))
	cashbackEarned := 0.0

	for _, category := range categoryOrder {
		spending := categorySpending[category]
		rate := rateFor(card, category)
		cashback := spending * rate / 100
		cashbackEarned += cashback
		breakdown = append(breakdown, domain.CategoryCashback{
			Category: category,
			Spending: spending,
			Rate:     rate,
			Cashback: cashback,
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Cashback > breakdown[j].Cashback
	})

	totalValueBack := cashbackEarned + card.BonusValue
	netValue := totalValueBack - card.AnnualFee
	effectiveRate := 0.0
	if totalSpending > 0 {
		effectiveRate = netValue / totalSpending * 100
	}

	return domain.CardAnalysis{
		Card:              card,
		CashbackEarned:    cashbackEarned,
		TotalValueBack:    totalValueBack,
		NetValue:          netValue,
		EffectiveRate:     effectiveRate,
		CategoryBreakdown: breakdown,
	}
}

// rateFor resolves a card's cashback rate for a category: the category's
// own rate, else the card's "Other" rate, else 0. This is the only place
// the fallback chain lives.
func rateFor(card domain.CreditCard, category string) float64 {
	if rate, ok := card.Categories[category]; ok {
		return rate
	}
	if rate, ok := card.Categories["Other"]; ok {
		return rate
	}
	return 0
}
