package public

import (
	"context"

	"github.com/aeolus87/currency-converter/internal/entities"
)

type Service interface {
	LoadCurrencies(ctx context.Context) ([]entities.Currency, error)
	LoadRates(ctx context.Context, base string, force bool) error
	RatesFor(base string) (*entities.RatesSnapshot, bool)
	Convert(ctx context.Context, amount float64, from, to string) (*entities.Conversion, error)
	LastError() string
}
