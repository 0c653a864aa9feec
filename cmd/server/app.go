package main

import (
	"context"
	"fmt"
	"log/slog"

	"protokollo/internal/archive"
	"protokollo/internal/audit"
	"protokollo/internal/catalog"
	"protokollo/internal/platform/config"
	platformpg "protokollo/internal/platform/postgres"
	platformredis "protokollo/internal/platform/redis"
	platformsqlite "protokollo/internal/platform/sqlite"
	"protokollo/internal/registration/metrics"
	"protokollo/internal/registration/service"
	"protokollo/internal/registration/store/ledger"
	"protokollo/internal/registration/store/sequence"
)

// schemaEnsurer is implemented by the SQL-backed stores.
type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// app bundles the wired services plus the resources to close on shutdown.
type app struct {
	cfg          config.Server
	logger       *slog.Logger
	registration *service.Service
	archive      *archive.Service
	catalog      *catalog.Catalog
	closers      []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp selects the storage backend and wires every service. The only
// branching in the whole program lives here; everything downstream works
// against the store interfaces.
func buildApp(ctx context.Context, cfg config.Server, logger *slog.Logger) (*app, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	floors := sequence.Floors{
		SignalsProtocol: cfg.Numbering.SignalsProtocolFloor,
		DefaultProtocol: cfg.Numbering.DefaultProtocolFloor,
		Draft:           cfg.Numbering.DraftFloor,
	}

	a := &app{cfg: cfg, logger: logger, catalog: cat}

	var (
		ledgerStore  ledger.Store
		auditStore   audit.Store
		archiveStore archive.Store
		alloc        sequence.Allocator
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		memLedger := ledger.NewInMemory()
		memAudit := audit.NewInMemory()
		ledgerStore = memLedger
		auditStore = memAudit
		archiveStore = archive.NewInMemory(memLedger, memAudit)
		alloc = sequence.NewInMemory(floors)

	case config.BackendSQLite:
		db, err := platformsqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { db.Close() })
		sqlLedger := ledger.NewSQLite(db)
		sqlAudit := audit.NewSQLite(db)
		sqlArchive := archive.NewSQLite(db)
		sqlAlloc := sequence.NewSQLite(db, floors)
		for _, s := range []schemaEnsurer{sqlLedger, sqlAudit, sqlAlloc, sqlArchive} {
			if err := s.EnsureSchema(ctx); err != nil {
				a.close()
				return nil, err
			}
		}
		ledgerStore, auditStore, archiveStore, alloc = sqlLedger, sqlAudit, sqlArchive, sqlAlloc

	case config.BackendPostgres:
		pool, err := platformpg.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		pgLedger := ledger.NewPostgres(pool)
		pgAudit := audit.NewPostgres(pool)
		pgArchive := archive.NewPostgres(pool)
		pgAlloc := sequence.NewPostgres(pool, floors)
		for _, s := range []schemaEnsurer{pgLedger, pgAudit, pgAlloc, pgArchive} {
			if err := s.EnsureSchema(ctx); err != nil {
				a.close()
				return nil, err
			}
		}
		ledgerStore, auditStore, archiveStore, alloc = pgLedger, pgAudit, pgArchive, pgAlloc

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	// Redis, when configured, takes over number allocation; the ledger stays
	// in the selected backend.
	if cfg.RedisURL != "" {
		rc, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { rc.Close() })
		alloc = sequence.NewRedis(rc.Client, floors)
	}

	a.registration = service.New(ledgerStore, alloc, auditStore, cat, metrics.New(), logger)
	a.archive = archive.New(archiveStore)
	return a, nil
}
