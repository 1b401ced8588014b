package service

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aeolus87/currency-converter/deploy/config"
	"github.com/aeolus87/currency-converter/internal/converter/metrics"
	"github.com/aeolus87/currency-converter/internal/entities"
	"github.com/pkg/errors"
)

// Service implements the cache-aside read path for currencies and exchange
// rates: memory first, then the store, then the upstream API.
type Service struct {
	store Store
	api   RatesAPI
	cfg   *config.Config
	now   func() time.Time

	mu         sync.RWMutex
	rates      map[string]*entities.RatesSnapshot
	currencies []entities.Currency
	lastError  string
}

func NewService(store Store, api RatesAPI, cfg *config.Config) *Service {
	return &Service{
		store: store,
		api:   api,
		cfg:   cfg,
		now:   time.Now,
		rates: make(map[string]*entities.RatesSnapshot),
	}
}

// LoadRates makes the rate table for the given base currency available in
// memory. Unless force is set, an in-memory snapshot wins, then a valid
// store entry; only then the upstream API is called. A fetch failure leaves
// previously loaded snapshots untouched.
func (s *Service) LoadRates(ctx context.Context, base string, force bool) error {
	const op = "service.LoadRates"

	if !force {
		s.mu.RLock()
		_, loaded := s.rates[base]
		s.mu.RUnlock()
		if loaded {
			metrics.CacheHits.WithLabelValues("memory").Inc()
			return nil
		}

		snapshot, err := s.store.GetRates(ctx, base)
		if err == nil && snapshot.Valid(s.now(), s.cfg.Cache.TTL) {
			metrics.CacheHits.WithLabelValues("store").Inc()
			s.setSnapshot(snapshot)
			return nil
		}
		if err != nil && !errors.Is(err, entities.ErrNotFound) {
			slog.Warn("rates cache read failed", "base", base, "error", err)
		}
	}

	metrics.CacheMisses.Inc()
	metrics.Fetches.WithLabelValues("latest").Inc()

	rates, updated, err := s.api.Latest(ctx, base)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("latest").Inc()
		s.setLastError("Failed to load exchange rates. Please try again.")
		slog.Error("rates fetch failed", "base", base, "error", err)
		return errors.Wrap(err, op)
	}

	fetchedAt := s.now()
	snapshot := &entities.RatesSnapshot{
		Base:        base,
		Rates:       rates,
		LastUpdated: displayTime(updated, fetchedAt),
		FetchedAt:   fetchedAt,
	}

	s.setSnapshot(snapshot)
	s.setLastError("")

	if err := s.store.SaveRates(ctx, snapshot); err != nil {
		slog.Warn("rates cache write failed", "base", base, "error", err)
	}

	return nil
}

// LoadCurrencies returns the supported currency list, loading it once per
// process. A fetch failure falls back to the built-in list, which is cached
// as if it were authoritative.
func (s *Service) LoadCurrencies(ctx context.Context) ([]entities.Currency, error) {
	s.mu.RLock()
	loaded := s.currencies
	s.mu.RUnlock()
	if loaded != nil {
		metrics.CacheHits.WithLabelValues("memory").Inc()
		return loaded, nil
	}

	set, err := s.store.GetCurrencies(ctx)
	if err == nil && set.Valid(s.now(), s.cfg.Cache.TTL) {
		metrics.CacheHits.WithLabelValues("store").Inc()
		s.setCurrencies(set.Currencies)
		return set.Currencies, nil
	}
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		slog.Warn("currencies cache read failed", "error", err)
	}

	metrics.CacheMisses.Inc()
	metrics.Fetches.WithLabelValues("currencies").Inc()

	currencies, err := s.api.Currencies(ctx)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("currencies").Inc()
		slog.Error("currency list fetch failed, using fallback", "error", err)
		currencies = entities.FallbackCurrencies
	}

	s.setCurrencies(currencies)

	saved := &entities.CurrencySet{Currencies: currencies, FetchedAt: s.now()}
	if err := s.store.SaveCurrencies(ctx, saved); err != nil {
		slog.Warn("currencies cache write failed", "error", err)
	}

	return currencies, nil
}

// Convert derives the converted amount from the in-memory rate state. When
// no snapshot is loaded for the source currency the result is pending and a
// lazy load is started in the background.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (*entities.Conversion, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, entities.ErrInvalidAmount
	}

	if from == to {
		return &entities.Conversion{
			Amount: amount,
			From:   from,
			To:     to,
			Rate:   1,
			Result: amount,
		}, nil
	}

	s.mu.RLock()
	snapshot := s.rates[from]
	s.mu.RUnlock()

	if snapshot == nil {
		// Not cancellable on purpose: the caller that triggered the load
		// may be gone by the time the response lands.
		go func(lctx context.Context) {
			if err := s.LoadRates(lctx, from, false); err != nil {
				slog.Debug("lazy rates load failed", "base", from, "error", err)
			}
		}(context.WithoutCancel(ctx))
		return nil, entities.ErrRatesPending
	}

	rate, ok := snapshot.Rate(to)
	if !ok {
		return nil, entities.ErrUnknownCurrency
	}

	return &entities.Conversion{
		Amount:      amount,
		From:        from,
		To:          to,
		Rate:        rate,
		Result:      amount * rate,
		LastUpdated: snapshot.LastUpdated,
	}, nil
}

// RatesFor returns the in-memory snapshot for the given base, if any.
func (s *Service) RatesFor(base string) (*entities.RatesSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.rates[base]
	return snapshot, ok
}

// HasRates reports whether rates for the base are loaded in memory.
func (s *Service) HasRates(base string) bool {
	_, ok := s.RatesFor(base)
	return ok
}

// LastError returns the current user-visible error string, empty when the
// last rates load succeeded.
func (s *Service) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastError
}

func (s *Service) setSnapshot(snapshot *entities.RatesSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Last write wins when loads for the same base overlap.
	s.rates[snapshot.Base] = snapshot
}

func (s *Service) setCurrencies(currencies []entities.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currencies = currencies
}

func (s *Service) setLastError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastError = msg
}

func displayTime(updated, fetchedAt time.Time) string {
	if updated.IsZero() {
		updated = fetchedAt
	}
	return updated.UTC().Format("Jan 2, 2006 15:04 UTC")
}
