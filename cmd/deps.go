package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/investor-cli/internal/advisor"
	"github.com/sells-group/investor-cli/internal/cache"
	"github.com/sells-group/investor-cli/internal/store"
	"github.com/sells-group/investor-cli/internal/tenant"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "investor.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initTenants(st store.Store) *tenant.Provider {
	return tenant.NewProvider(cfg.Tenants.Dir, st)
}

func initCache() (cache.Cache, time.Duration) {
	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemory(), ttl
	case "redis":
		return cache.NewRedis(cfg.Cache.Addr), ttl
	default:
		return nil, 0
	}
}

func initAdvisor() *advisor.Advisor {
	return advisor.New(cfg.Anthropic.Key, cfg.Anthropic.Model)
}
