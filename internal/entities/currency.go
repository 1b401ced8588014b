package entities

import "time"

// Currency describes one supported currency as reported by the rates API.
// Immutable once fetched.
type Currency struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol,omitempty"`
	SymbolNative string `json:"symbol_native,omitempty"`
}

// CurrencySet is the single cached list of supported currencies.
type CurrencySet struct {
	Currencies []Currency `json:"currencies"`
	FetchedAt  time.Time  `json:"timestamp"`
}

// Valid reports whether the set is still fresh at the given moment.
func (s *CurrencySet) Valid(now time.Time, ttl time.Duration) bool {
	if s == nil || s.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

// FallbackCurrencies is used when the currency list cannot be fetched,
// so the converter stays usable offline.
var FallbackCurrencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", SymbolNative: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€", SymbolNative: "€"},
	{Code: "GBP", Name: "British Pound Sterling", Symbol: "£", SymbolNative: "£"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", SymbolNative: "￥"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "CA$", SymbolNative: "$"},
}
