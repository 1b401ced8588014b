package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aeolus87/currency-converter/deploy/config"
	"github.com/aeolus87/currency-converter/internal/entities"
	"github.com/pkg/errors"
)

// Storage keeps the cache as JSON files in a local directory, one file per
// cache key. Used by the CLI, where no redis is around.
type Storage struct {
	dir string
	cfg *config.Cache
	mu  sync.Mutex
}

func NewStorage(dir string, cfg *config.Cache) (*Storage, error) {
	const op = "store.file.NewStorage"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return &Storage{dir: dir, cfg: cfg}, nil
}

type ratesFile map[string]*entities.RatesSnapshot

func (s *Storage) GetRates(_ context.Context, base string) (*entities.RatesSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readRates()
	snapshot, ok := all[base]
	if !ok {
		return nil, entities.ErrNotFound
	}

	return snapshot, nil
}

func (s *Storage) SaveRates(_ context.Context, snapshot *entities.RatesSnapshot) error {
	const op = "store.file.SaveRates"

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.readRates()
	all[snapshot.Base] = snapshot

	if err := s.write(s.ratesPath(), all); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}

func (s *Storage) GetCurrencies(_ context.Context) (*entities.CurrencySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.currenciesPath())
	if err != nil {
		return nil, entities.ErrNotFound
	}

	var set entities.CurrencySet
	if err := json.Unmarshal(raw, &set); err != nil {
		slog.Warn("discarding malformed currencies cache file", "error", err)
		return nil, entities.ErrNotFound
	}

	return &set, nil
}

func (s *Storage) SaveCurrencies(_ context.Context, set *entities.CurrencySet) error {
	const op = "store.file.SaveCurrencies"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(s.currenciesPath(), set); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}

func (s *Storage) readRates() ratesFile {
	raw, err := os.ReadFile(s.ratesPath())
	if err != nil {
		return ratesFile{}
	}

	var all ratesFile
	if err := json.Unmarshal(raw, &all); err != nil {
		slog.Warn("discarding malformed rates cache file", "error", err)
		return ratesFile{}
	}

	return all
}

func (s *Storage) write(path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func (s *Storage) ratesPath() string {
	return filepath.Join(s.dir, s.cfg.RatesKey+".json")
}

func (s *Storage) currenciesPath() string {
	return filepath.Join(s.dir, s.cfg.CurrencyKey+".json")
}
