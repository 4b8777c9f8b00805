package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/JonMunkholm/partconfig/internal/catalog"
	"github.com/JonMunkholm/partconfig/internal/config"
	"github.com/JonMunkholm/partconfig/internal/core"
	_ "github.com/JonMunkholm/partconfig/internal/core/parts" // Register all parts
	"github.com/jackc/pgx/v5/pgxpool"
)

// app holds the wired dependencies shared by all commands.
type app struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	service *core.Service
	pool    *pgxpool.Pool
}

// newApp loads reference data, connects to Postgres when configured and
// builds the service.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	cat, err := loadCatalog(cfg.Catalog.Dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog loaded",
		"materials", len(cat.Materials()),
		"models", len(cat.Models()),
		"dir", cfg.Catalog.Dir,
	)

	a := &app{cfg: cfg, catalog: cat}

	var ref core.ReferenceData = cat
	if cfg.Catalog.DatabaseURL != "" {
		pool, err := connect(ctx, cfg.Catalog)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		ref = catalog.Layered{Primary: catalog.NewPGStore(pool), Fallback: cat}
	}

	a.service = core.NewService(ref, core.ServiceConfig{
		OutputDir:        cfg.Output.Dir,
		BatchConcurrency: cfg.Output.BatchConcurrency,
		LookupTimeout:    cfg.Catalog.LookupTimeout,
	})

	slog.Debug("parts registered", "count", core.PartCount(), "groups", len(core.Groups()))
	return a, nil
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: catalog dir: %w", core.ErrReferenceUnavailable, err)
	}
	return catalog.Load(os.DirFS(dir))
}

func connect(ctx context.Context, cfg config.CatalogConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", core.ErrReferenceUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.LookupTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", core.ErrReferenceUnavailable, err)
	}

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		slog.Info("connected to material database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to material database")
	}
	return pool, nil
}
