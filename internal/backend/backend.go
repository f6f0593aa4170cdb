// Package backend builds the vector index selected by configuration.
package backend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/repository/vectorindex"
	"github.com/kailas-cloud/ragdex/internal/transport/qdrant"
	documentuc "github.com/kailas-cloud/ragdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

// Backend bundles the vector index with its health pinger.
// Index and Pinger are untyped nil when no remote backend is available.
type Backend struct {
	Index  documentuc.VectorIndex
	Pinger healthuc.BackendPinger

	closeFn func()
}

// Close releases the backend connection. Safe on a memory backend.
func (b Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// Build creates the backend for cfg.Driver. It never fails: an unreachable
// redis or valkey server yields an empty Backend and the document store then
// runs in fallback mode. Qdrant is contacted only by Init.
func Build(cfg config.BackendConfig, logger *zap.Logger) Backend {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			Valkey:   cfg.Driver == config.DriverValkey,
		})
		if err != nil {
			logger.Warn("Vector backend unreachable, using in-memory fallback for the process lifetime",
				zap.String("driver", cfg.Driver),
				zap.Strings("addrs", cfg.Addrs),
				zap.Error(err),
			)
			return Backend{}
		}
		return Backend{
			Index:   &readyIndex{Repo: vectorindex.New(store, cfg.Collection), store: store},
			Pinger:  store,
			closeFn: store.Close,
		}

	case config.DriverQdrant:
		client := qdrant.NewClient(&qdrant.Config{
			URL:        cfg.URL,
			APIKey:     cfg.APIKey,
			Collection: cfg.Collection,
			Timeout:    time.Duration(cfg.OpTimeoutSec) * time.Second,
			Logger:     logger,
		})
		return Backend{Index: client, Pinger: client, closeFn: client.Close}

	default:
		return Backend{}
	}
}

// readyIndex waits for the server to answer PING before creating the index.
// The wait is bounded by the Init context deadline.
type readyIndex struct {
	*vectorindex.Repo
	store *dbRedis.Store
}

func (r *readyIndex) Init(ctx context.Context, dim int) error {
	timeout := time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := r.store.WaitForReady(ctx, timeout); err != nil {
		return err
	}
	return r.Repo.Init(ctx, dim)
}
