package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeolus87/currency-converter/deploy/config"
	"github.com/aeolus87/currency-converter/internal/entities"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()

	cfg := &config.Cache{
		TTL:         10 * time.Minute,
		RatesKey:    "currency_rates_cache",
		CurrencyKey: "currencies_cache",
	}

	s, err := NewStorage(t.TempDir(), cfg)
	require.NoError(t, err)
	return s
}

func TestRatesRoundTrip(t *testing.T) {
	s := newStorage(t)

	snapshot := &entities.RatesSnapshot{
		Base:        "USD",
		Rates:       entities.Rates{"EUR": 0.9},
		LastUpdated: "Mar 1, 2026 12:00 UTC",
		FetchedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.SaveRates(context.Background(), snapshot))

	got, err := s.GetRates(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, snapshot.Rates, got.Rates)
	assert.True(t, snapshot.FetchedAt.Equal(got.FetchedAt))
}

func TestRatesKeyedByBase(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.SaveRates(context.Background(), &entities.RatesSnapshot{
		Base: "USD", Rates: entities.Rates{"EUR": 0.9},
	}))
	require.NoError(t, s.SaveRates(context.Background(), &entities.RatesSnapshot{
		Base: "EUR", Rates: entities.Rates{"USD": 1.1},
	}))

	usd, err := s.GetRates(context.Background(), "USD")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, usd.Rates["EUR"], 1e-9)

	eur, err := s.GetRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 1.1, eur.Rates["USD"], 1e-9)
}

func TestMissingEntries(t *testing.T) {
	s := newStorage(t)

	_, err := s.GetRates(context.Background(), "USD")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = s.GetCurrencies(context.Background())
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestMalformedFilesAreMisses(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, os.WriteFile(s.ratesPath(), []byte("{oops"), 0o644))
	require.NoError(t, os.WriteFile(s.currenciesPath(), []byte("{oops"), 0o644))

	_, err := s.GetRates(context.Background(), "USD")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = s.GetCurrencies(context.Background())
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestCurrenciesRoundTrip(t *testing.T) {
	s := newStorage(t)

	set := &entities.CurrencySet{
		Currencies: entities.FallbackCurrencies,
		FetchedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.SaveCurrencies(context.Background(), set))

	got, err := s.GetCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, set.Currencies, got.Currencies)
}

func TestFilesUseConfiguredKeys(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.SaveRates(context.Background(), &entities.RatesSnapshot{
		Base: "USD", Rates: entities.Rates{"EUR": 0.9},
	}))

	assert.Equal(t, "currency_rates_cache.json", filepath.Base(s.ratesPath()))
	_, err := os.Stat(s.ratesPath())
	assert.NoError(t, err)
}
