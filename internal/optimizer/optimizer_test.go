package optimizer

import (
	"math"
	"reflect"
	"testing"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

func TestCompute_EmptyInputs(t *testing.T) {
	txs := []domain.Transaction{{Date: "2025-01-01", Name: "a", Amount: 10, Category: "A"}}
	cards := []domain.CreditCard{{ID: "c1", Name: "Card", Categories: map[string]float64{"Other": 1}}}

	if got := Compute(nil, cards); got != nil {
		t.Errorf("Compute(nil, cards) = %+v, want nil", got)
	}
	if got := Compute(txs, nil); got != nil {
		t.Errorf("Compute(txs, nil) = %+v, want nil", got)
	}
}

func TestCompute_OtherFallback(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "store", Amount: 100, Category: "Unlisted"},
	}
	cards := []domain.CreditCard{
		{ID: "flat", Name: "Flat 2%", AnnualFee: 0, BonusValue: 0, Categories: map[string]float64{"Other": 2}},
	}

	got := Compute(txs, cards)
	if got == nil {
		t.Fatal("Compute returned nil")
	}

	ca := got.CardAnalysis[0]
	if ca.CashbackEarned != 2 {
		t.Errorf("CashbackEarned = %v, want 2", ca.CashbackEarned)
	}
	if ca.NetValue != 2 {
		t.Errorf("NetValue = %v, want 2", ca.NetValue)
	}
	if ca.EffectiveRate != 2 {
		t.Errorf("EffectiveRate = %v, want 2", ca.EffectiveRate)
	}
}

func TestCompute_NoRateAtAll(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "store", Amount: 100, Category: "Unlisted"},
	}
	cards := []domain.CreditCard{
		{ID: "narrow", Name: "Dining Only", Categories: map[string]float64{"Dining": 3}},
	}

	got := Compute(txs, cards)
	if got.CardAnalysis[0].CashbackEarned != 0 {
		t.Errorf("CashbackEarned = %v, want 0 when neither category nor Other is present", got.CardAnalysis[0].CashbackEarned)
	}
}

func TestCompute_FeeAndBonus(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "restaurant", Amount: 200, Category: "Dining"},
		{Date: "2025-01-02", Name: "store", Amount: 300, Category: "Shopping"},
	}
	cards := []domain.CreditCard{
		{
			ID:         "premium",
			Name:       "Premium Dining",
			AnnualFee:  95,
			BonusValue: 600,
			Categories: map[string]float64{"Dining": 3, "Other": 1},
		},
	}

	got := Compute(txs, cards)
	ca := got.CardAnalysis[0]

	// 200*3% + 300*1% = 9
	if ca.CashbackEarned != 9 {
		t.Errorf("CashbackEarned = %v, want 9", ca.CashbackEarned)
	}
	if ca.TotalValueBack != 609 {
		t.Errorf("TotalValueBack = %v, want 609", ca.TotalValueBack)
	}
	if ca.NetValue != 514 {
		t.Errorf("NetValue = %v, want 514", ca.NetValue)
	}
	wantRate := 514.0 / 500.0 * 100
	if math.Abs(ca.EffectiveRate-wantRate) > 1e-9 {
		t.Errorf("EffectiveRate = %v, want %v", ca.EffectiveRate, wantRate)
	}

	// Dining earns 6, Shopping earns 3: breakdown sorted by cashback desc.
	if ca.CategoryBreakdown[0].Category != "Dining" || ca.CategoryBreakdown[1].Category != "Shopping" {
		t.Errorf("CategoryBreakdown order = %+v, want Dining then Shopping", ca.CategoryBreakdown)
	}
}

func TestCompute_RankingByNetValue(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "store", Amount: 1000, Category: "Shopping"},
	}
	cards := []domain.CreditCard{
		{ID: "low", Name: "Five Percent", Categories: map[string]float64{"Other": 5}},  // net 50
		{ID: "high", Name: "Eight Percent", Categories: map[string]float64{"Other": 8}}, // net 80
	}

	got := Compute(txs, cards)

	if got.CardAnalysis[0].Card.ID != "high" {
		t.Errorf("first card = %s, want high (net 80 before net 50)", got.CardAnalysis[0].Card.ID)
	}
	if got.CardAnalysis[0].NetValue != 80 || got.CardAnalysis[1].NetValue != 50 {
		t.Errorf("net values = %v, %v; want 80, 50", got.CardAnalysis[0].NetValue, got.CardAnalysis[1].NetValue)
	}
}

func TestCompute_TieBreaks(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "store", Amount: 1000, Category: "Shopping"},
	}

	// Same net value (20): one earns it all as cashback, one as bonus.
	// Higher cashback wins the tie.
	cards := []domain.CreditCard{
		{ID: "bonus", Name: "Bonus Card", BonusValue: 20, Categories: map[string]float64{}},
		{ID: "cashback", Name: "Cashback Card", Categories: map[string]float64{"Other": 2}},
	}

	got := Compute(txs, cards)
	if got.CardAnalysis[0].Card.ID != "cashback" {
		t.Errorf("tie on net value should rank higher cashback first, got %s", got.CardAnalysis[0].Card.ID)
	}

	// Fully identical cards keep input order.
	identical := []domain.CreditCard{
		{ID: "first", Name: "Twin A", Categories: map[string]float64{"Other": 2}},
		{ID: "second", Name: "Twin B", Categories: map[string]float64{"Other": 2}},
	}
	got = Compute(txs, identical)
	if got.CardAnalysis[0].Card.ID != "first" || got.CardAnalysis[1].Card.ID != "second" {
		t.Errorf("identical cards must keep input order, got %s then %s",
			got.CardAnalysis[0].Card.ID, got.CardAnalysis[1].Card.ID)
	}
}

func TestCompute_CategorySpending(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "a", Amount: 10, Category: "A"},
		{Date: "2025-01-02", Name: "b", Amount: -20, Category: "A"},
		{Date: "2025-01-03", Name: "c", Amount: 5, Category: ""},
	}
	cards := []domain.CreditCard{{ID: "c", Name: "Card", Categories: map[string]float64{"Other": 1}}}

	got := Compute(txs, cards)

	want := map[string]float64{"A": 30, "Other": 5}
	if !reflect.DeepEqual(got.CategorySpending, want) {
		t.Errorf("CategorySpending = %v, want %v", got.CategorySpending, want)
	}
	if got.TotalSpending != 35 {
		t.Errorf("TotalSpending = %v, want 35", got.TotalSpending)
	}
}

func TestCompute_DoesNotMutateInputs(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "a", Amount: 10, Category: "A"},
	}
	cards := []domain.CreditCard{
		{ID: "z", Name: "Z", Categories: map[string]float64{"Other": 1}},
		{ID: "y", Name: "Y", Categories: map[string]float64{"Other": 9}},
	}

	Compute(txs, cards)

	if cards[0].ID != "z" || cards[1].ID != "y" {
		t.Error("input card order was mutated")
	}
}

func TestCompute_Deterministic(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2025-01-01", Name: "a", Amount: 10, Category: "A"},
		{Date: "2025-01-02", Name: "b", Amount: 10, Category: "B"},
		{Date: "2025-01-03", Name: "c", Amount: 10, Category: "C"},
	}
	cards := []domain.CreditCard{
		{ID: "flat", Name: "Flat", Categories: map[string]float64{"Other": 2}},
	}

	first := Compute(txs, cards)
	for i := 0; i < 20; i++ {
		again := Compute(txs, cards)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}
