package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bobby-s-dev/weather-planner/internal/config"
	"go.uber.org/zap"
)

// Open builds the configured backend. The returned closer releases it.
func Open(cfg *config.Config, logger *zap.Logger) (KeyValueStore, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		logger.Info("Using in-memory event store")
		return NewMemoryStore(), noopCloser{}, nil
	case config.StoreBackendSQLite:
		if err := os.MkdirAll(cfg.Store.Path, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create store dir: %w", err)
		}
		path := filepath.Join(cfg.Store.Path, "planner.db")
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite event store", zap.String("path", path))
		return NewSQLiteStore(db), db, nil
	case config.StoreBackendDisk, "":
		logger.Info("Using disk event store", zap.String("path", cfg.Store.Path))
		return NewDiskStore(cfg.Store.Path), noopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }
