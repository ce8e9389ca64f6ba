package bruteforce

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_bf:"

// RedisGuard is a Guard backed by a shared Redis instance, making the lockout
// effective across all application instances. Counting relies on INCR, so the
// increment-and-check is atomic even under concurrent attempts from different
// processes.
type RedisGuard struct {
	client *redis.Client
	cfg    Config
}

// NewRedisGuard creates a RedisGuard on top of an existing client.
func NewRedisGuard(client *redis.Client, cfg Config) *RedisGuard {
	return &RedisGuard{client: client, cfg: cfg}
}

func countKey(identity string) string { return keyPrefix + "cnt:" + identity }
func blockKey(identity string) string { return keyPrefix + "blk:" + identity }

// Consume implements Guard.
func (g *RedisGuard) Consume(ctx context.Context, identity string) error {
	blocked, err := g.client.Exists(ctx, blockKey(identity)).Result()
	if err != nil {
		return err
	}
	if blocked > 0 {
		return ErrLimited
	}

	count, err := g.client.Get(ctx, countKey(identity)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if count >= g.cfg.Points {
		return ErrLimited
	}

	return nil
}

// Penalty implements Guard. The first failure in a window arms the window TTL;
// the failure that exhausts the budget arms the block key.
func (g *RedisGuard) Penalty(ctx context.Context, identity string) error {
	count, err := g.client.Incr(ctx, countKey(identity)).Result()
	if err != nil {
		return err
	}

	if count == 1 {
		if err := g.client.Expire(ctx, countKey(identity), g.cfg.Window).Err(); err != nil {
			return err
		}
	}

	if count >= int64(g.cfg.Points) {
		if err := g.client.Set(ctx, blockKey(identity), 1, g.cfg.Block).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Reset implements Guard.
func (g *RedisGuard) Reset(ctx context.Context, identity string) error {
	return g.client.Del(ctx, countKey(identity), blockKey(identity)).Err()
}

// DialRedis connects a client for the shared guard backend and verifies the
// connection before use.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
