package entities

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrUnknownCurrency  = errors.New("unknown currency code")
	ErrRatesPending     = errors.New("rates not loaded for base currency")
	ErrRatesUnavailable = errors.New("exchange rates unavailable")
	ErrInvalidAmount    = errors.New("invalid amount")
)
