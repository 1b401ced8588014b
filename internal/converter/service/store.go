package service

import (
	"context"

	"github.com/aeolus87/currency-converter/internal/entities"
)

// Store is the persistent cache behind the in-memory rate tables. Reads
// return entities.ErrNotFound when no entry exists; validity (expiry) is
// checked by the service, not the store.
type Store interface {
	GetRates(ctx context.Context, base string) (*entities.RatesSnapshot, error)
	SaveRates(ctx context.Context, snapshot *entities.RatesSnapshot) error
	GetCurrencies(ctx context.Context) (*entities.CurrencySet, error)
	SaveCurrencies(ctx context.Context, set *entities.CurrencySet) error
}
