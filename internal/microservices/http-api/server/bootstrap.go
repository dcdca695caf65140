package server

import (
	"context"

	"storyhub/database"
	"storyhub/internal/cache"
	"storyhub/internal/config"
	"storyhub/internal/lock"
	"storyhub/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Bootstrap opens the database and, when configured, Redis. cleanup
// releases whatever was opened.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logger.Logger) (Deps, func(), error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return Deps{}, nil, err
	}

	deps := Deps{
		Config: cfg,
		DB:     db,
		Log:    log,
		Locker: lock.NewKeyedMutex(),
		Cache:  cache.Noop{},
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			if cfg.LockBackend == "redis" {
				_ = database.Close(db)
				return Deps{}, nil, err
			}
			log.Warn("redis unavailable, analytics cache disabled", "error", err)
		} else {
			deps.Cache = cache.NewRedisCache(rdb, "storyhub:analytics:")
			if cfg.LockBackend == "redis" {
				deps.Locker = lock.NewRedisLocker(rdb, cfg.LockTTL, log)
			}
			log.Info("connected to redis", "lock_backend", cfg.LockBackend)
		}
	}

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		if err := database.Close(db); err != nil {
			log.Warn("close database", "error", err)
		}
	}
	return deps, cleanup, nil
}
