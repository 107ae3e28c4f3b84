// Package cards holds the reward-card catalog: a built-in default set
// plus loading of user-supplied card definitions from JSON.
package cards

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// DefaultCatalog returns the built-in card set used when no catalog file
// is configured. Rates are percentages.
func DefaultCatalog() []domain.CreditCard {
	return []domain.CreditCard{
		{
			ID:         "card-1",
			Name:       "Chase Sapphire Preferred",
			AnnualFee:  95,
			Categories: map[string]float64{"Dining": 3, "Travel": 3, "Other": 1},
			BonusValue: 600,
		},
		{
			ID:         "card-2",
			Name:       "Blue Cash Preferred",
			AnnualFee:  95,
			Categories: map[string]float64{"Groceries": 6, "Gas": 3, "Entertainment": 3, "Other": 1},
			BonusValue: 350,
		},
		{
			ID:         "card-3",
			Name:       "Citi Double Cash",
			AnnualFee:  0,
			Categories: map[string]float64{"Other": 2},
			BonusValue: 0,
		},
	}
}

// LoadFile reads a JSON array of card definitions from disk and
// validates each entry.
func LoadFile(path string) ([]domain.CreditCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: %w", err)
	}

	var catalog []domain.CreditCard
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("LoadFile: parsing %s: %w", path, err)
	}

	for i := range catalog {
		if err := Validate(&catalog[i]); err != nil {
			return nil, fmt.Errorf("LoadFile: card %d: %w", i, err)
		}
	}

	return catalog, nil
}

// Validate checks a card definition and fills a missing ID from the
// name. Rates must be percentages in [0,100]; fees and bonuses must be
// non-negative.
func Validate(card *domain.CreditCard) error {
	if card.Name == "" {
		return fmt.Errorf("card name is required")
	}
	if card.ID == "" {
		card.ID = card.Name
	}
	if card.AnnualFee < 0 {
		return fmt.Errorf("card %q: annual fee must be non-negative", card.Name)
	}
	if card.BonusValue < 0 {
		return fmt.Errorf("card %q: bonus value must be non-negative", card.Name)
	}
	for category, rate := range card.Categories {
		if rate < 0 || rate > 100 {
			return fmt.Errorf("card %q: rate for %q is %v, want a percentage in [0,100]", card.Name, category, rate)
		}
	}
	return nil
}
