package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/skrblv/bilimGO/internal/logger"
)

const leaderboardKey = "leaderboard:top"

type LeaderboardCache interface {
	Get(ctx context.Context, dest interface{}) (bool, error)
	Set(ctx context.Context, value interface{}) error
	Close() error
}

type leaderboardCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewLeaderboardCache connects to REDIS_ADDR. The leaderboard changes on
// every lesson completion, so entries carry a short TTL instead of being
// invalidated from every write path.
func NewLeaderboardCache(log *logger.Logger) (LeaderboardCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &leaderboardCache{
		log: log.With("service", "LeaderboardCache"),
		rdb: rdb,
		ttl: 30 * time.Second,
	}, nil
}

func (c *leaderboardCache) Get(ctx context.Context, dest interface{}) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, leaderboardKey).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("bad leaderboard cache payload", "error", err)
		return false, nil
	}
	return true, nil
}

func (c *leaderboardCache) Set(ctx context.Context, value interface{}) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, leaderboardKey, raw, c.ttl).Err()
}

func (c *leaderboardCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
