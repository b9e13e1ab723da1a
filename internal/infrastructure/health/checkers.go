package health

import (
	"context"

	"github.com/avatarctic/user-management-service/internal/core/ports"
	infraDB "github.com/avatarctic/user-management-service/internal/infrastructure/db"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }
func (d *dbHealthChecker) Critical() bool                  { return true }

// cacheHealthChecker probes the cache store. The service keeps working without it.
type cacheHealthChecker struct{ cache ports.Cache }

func (c *cacheHealthChecker) Name() string                    { return "cache" }
func (c *cacheHealthChecker) Check(ctx context.Context) error { return c.cache.Ping(ctx) }
func (c *cacheHealthChecker) Critical() bool                  { return false }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewCacheHealthChecker creates a health checker for the cache store.
func NewCacheHealthChecker(cache ports.Cache) ports.HealthChecker {
	return &cacheHealthChecker{cache: cache}
}
