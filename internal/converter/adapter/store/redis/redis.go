package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aeolus87/currency-converter/deploy/config"
	"github.com/aeolus87/currency-converter/internal/entities"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Storage keeps the rates cache in a redis hash keyed by base currency and
// the currency list under a single key, both as JSON.
type Storage struct {
	rdb *redis.Client
	cfg *config.Cache
}

func NewStorage(client *redis.Client, cfg *config.Cache) *Storage {
	return &Storage{
		rdb: client,
		cfg: cfg,
	}
}

func InitStorage(ctx context.Context, options *redis.Options, cfg *config.Cache) (*Storage, error) {
	const op = "store.redis.InitStorage"

	redisClient := redis.NewClient(options)

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return NewStorage(redisClient, cfg), nil
}

func (s *Storage) GetRates(ctx context.Context, base string) (*entities.RatesSnapshot, error) {
	const op = "store.redis.GetRates"

	raw, err := s.rdb.HGet(ctx, s.cfg.RatesKey, base).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrNotFound
		}
		return nil, errors.Wrap(err, op)
	}

	var snapshot entities.RatesSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// A corrupt entry is treated as a miss so the caller refetches.
		slog.Warn("discarding malformed rates cache entry", "base", base, "error", err)
		return nil, entities.ErrNotFound
	}

	return &snapshot, nil
}

func (s *Storage) SaveRates(ctx context.Context, snapshot *entities.RatesSnapshot) error {
	const op = "store.redis.SaveRates"

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, op)
	}

	if err := s.rdb.HSet(ctx, s.cfg.RatesKey, snapshot.Base, raw).Err(); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}

func (s *Storage) GetCurrencies(ctx context.Context) (*entities.CurrencySet, error) {
	const op = "store.redis.GetCurrencies"

	raw, err := s.rdb.Get(ctx, s.cfg.CurrencyKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrNotFound
		}
		return nil, errors.Wrap(err, op)
	}

	var set entities.CurrencySet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		slog.Warn("discarding malformed currencies cache entry", "error", err)
		return nil, entities.ErrNotFound
	}

	return &set, nil
}

func (s *Storage) SaveCurrencies(ctx context.Context, set *entities.CurrencySet) error {
	const op = "store.redis.SaveCurrencies"

	raw, err := json.Marshal(set)
	if err != nil {
		return errors.Wrap(err, op)
	}

	if err := s.rdb.Set(ctx, s.cfg.CurrencyKey, raw, 0).Err(); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}
