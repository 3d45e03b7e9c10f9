package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"go.uber.org/zap"
)

const (
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Options struct {
	Backend     string
	BadgerPath  string
	DatabaseURL string
}

// Open returns the KV store for the configured backend.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (domain.KVStore, error) {
	switch opts.Backend {
	case BackendBadger, "":
		return OpenBadger(DefaultBadgerConfig(opts.BadgerPath), logger)
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
		return OpenPostgres(ctx, opts.DatabaseURL)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

var (
	_ domain.KVStore = (*MemoryStore)(nil)
	_ domain.KVStore = (*BadgerStore)(nil)
	_ domain.KVStore = (*PostgresStore)(nil)
)
