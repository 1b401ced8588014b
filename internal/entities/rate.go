package entities

import "time"

// Rates maps a currency code to its multiplier relative to one base currency.
type Rates map[string]float64

// RatesSnapshot holds the rate table for a single base currency together
// with the moment it was fetched. One snapshot exists per base.
type RatesSnapshot struct {
	Base        string    `json:"base"`
	Rates       Rates     `json:"rates"`
	LastUpdated string    `json:"lastUpdated"`
	FetchedAt   time.Time `json:"timestamp"`
}

// Valid reports whether the snapshot may still be served at the given
// moment. A snapshot older than the ttl must be refetched before use.
func (s *RatesSnapshot) Valid(now time.Time, ttl time.Duration) bool {
	if s == nil || s.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

// Rate returns the multiplier from the snapshot base to the given currency.
func (s *RatesSnapshot) Rate(to string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.Rates[to]
	return v, ok
}

// Conversion is the outcome of converting an amount between two currencies.
type Conversion struct {
	Amount      float64 `json:"amount"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Rate        float64 `json:"rate"`
	Result      float64 `json:"result"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
}
