package gredis

import (
	"geoloc193/internal/config"

	"github.com/go-redis/redis"
	"github.com/useinsider/go-pkg/inslogger"
)

// NewClient returns nil, nil when no Redis host is configured.
func NewClient(cfg *config.RedisConfig, logger inslogger.Interface) (*redis.Client, error) {
	if cfg.Host == "" {
		logger.Warn("REDIS_HOST not set, transcript cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		logger.Errorf("error connecting to redis at %s: %v", cfg.Addr(), err)
		return nil, err
	}

	logger.Logf("connected to Redis at %s", cfg.Addr())
	return client, nil
}
