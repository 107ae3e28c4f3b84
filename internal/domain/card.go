package domain

// CreditCard is a reward-card definition supplied as configuration.
type CreditCard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AnnualFee float64 `json:"annualFee"`
	// Categories maps a spending category to a cashback rate expressed as
	// a percentage (3 means 3%, not 0.03). The "Other" entry, when
	// present, is the fallback rate for unlisted categories.
	Categories map[string]float64 `json:"categories"`
	BonusValue float64            `json:"bonusValue"`
}
