package session

import (
	"context"
	"sync"
	"time"

	"github.com/aeolus87/currency-converter/internal/converter/service"
	"github.com/aeolus87/currency-converter/internal/entities"
)

// Session holds the interactive conversion state: an amount and a currency
// pair. It mirrors what the form on screen shows and keeps the service's
// rate tables warm as the pair changes.
type Session struct {
	svc       *service.Service
	swapDelay time.Duration

	mu     sync.Mutex
	amount float64
	from   string
	to     string
}

func NewSession(svc *service.Service, swapDelay time.Duration) *Session {
	return &Session{
		svc:       svc,
		swapDelay: swapDelay,
		amount:    1,
		from:      "USD",
		to:        "EUR",
	}
}

// Pair returns the current from/to currencies.
func (s *Session) Pair() (from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.from, s.to
}

func (s *Session) Amount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.amount
}

func (s *Session) SetAmount(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.amount = amount
}

// SetFrom changes the source currency and loads its rates when they are not
// already in memory.
func (s *Session) SetFrom(ctx context.Context, code string) error {
	s.mu.Lock()
	s.from = code
	s.mu.Unlock()

	if s.svc.HasRates(code) {
		return nil
	}
	return s.svc.LoadRates(ctx, code, false)
}

func (s *Session) SetTo(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.to = code
}

// Swap exchanges the from/to pair after a short cosmetic delay, then loads
// rates for the new source currency when needed. Swapping twice restores
// the original pair.
func (s *Session) Swap(ctx context.Context) error {
	if s.swapDelay > 0 {
		select {
		case <-time.After(s.swapDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	s.from, s.to = s.to, s.from
	from := s.from
	s.mu.Unlock()

	if s.svc.HasRates(from) {
		return nil
	}
	return s.svc.LoadRates(ctx, from, false)
}

// Convert derives the conversion for the current session state.
func (s *Session) Convert(ctx context.Context) (*entities.Conversion, error) {
	s.mu.Lock()
	amount, from, to := s.amount, s.from, s.to
	s.mu.Unlock()

	return s.svc.Convert(ctx, amount, from, to)
}
