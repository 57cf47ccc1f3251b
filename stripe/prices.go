package stripe

import "sort"

// PriceCatalog is the immutable mapping from fixed donation amounts (in minor
// currency units) to the recurring Stripe price identifiers configured for
// them. It is built once at process start and never mutated.
type PriceCatalog struct {
	prices map[int64]string
}

// NewPriceCatalog builds the catalog from the configured price identifiers.
func NewPriceCatalog(config *Config) *PriceCatalog {
	prices := make(map[int64]string, len(config.Prices))
	for amount, priceID := range config.Prices {
		prices[amount] = priceID
	}
	return &PriceCatalog{prices: prices}
}

// PriceID returns the Stripe price identifier for the given donation amount,
// or false if the amount is not a configured tier.
func (pc *PriceCatalog) PriceID(amount int64) (string, bool) {
	priceID, ok := pc.prices[amount]
	return priceID, ok
}

// Amounts returns the configured donation tiers in ascending order.
func (pc *PriceCatalog) Amounts() []int64 {
	amounts := make([]int64, 0, len(pc.prices))
	for amount := range pc.prices {
		amounts = append(amounts, amount)
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i] < amounts[j] })
	return amounts
}
