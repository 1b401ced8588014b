package service

import (
	"context"
	"time"

	"github.com/aeolus87/currency-converter/internal/entities"
)

// RatesAPI is the upstream source of truth for currencies and rates.
type RatesAPI interface {
	Currencies(ctx context.Context) ([]entities.Currency, error)
	Latest(ctx context.Context, base string) (entities.Rates, time.Time, error)
}
