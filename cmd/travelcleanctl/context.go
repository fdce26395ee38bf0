package main

import (
	"context"
	"database/sql"
	"sync"

	"github.com/redis/go-redis/v9"

	"travelclean/internal/cache"
	"travelclean/internal/config"
	"travelclean/internal/database"
)

// commandContext lazily loads configuration and opens connections shared by
// the subcommands.
type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error

	db     *sql.DB
	valkey *redis.Client
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

// database connects to PostgreSQL and applies pending migrations.
func (c *commandContext) database() (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	c.db = db
	return db, nil
}

// invalidatePages clears the public page cache when Valkey is configured.
// A cache that cannot be reached is reported but does not fail the command.
func (c *commandContext) invalidatePages(ctx context.Context) (bool, error) {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.CacheEnabled() {
		return false, err
	}
	if c.valkey == nil {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return false, err
		}
		c.valkey = client
	}
	cache.NewPageCache(c.valkey, cfg.PageCacheTTL).InvalidateAll(ctx)
	return true, nil
}

func (c *commandContext) close() {
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	if c.valkey != nil {
		c.valkey.Close()
		c.valkey = nil
	}
}
