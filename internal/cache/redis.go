package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/domain"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Redis is a shared cache step of the lookup chain. Values are JSON encoded
// users with a TTL.
type Redis struct {
	client redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedis(client redisClient, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Name() string { return "redis" }

// Fetch treats redis failures as misses; the chain moves on to the next
// source.
func (r *Redis) Fetch(ctx context.Context, id int64) (domain.User, bool, error) {
	val, err := r.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, false, nil
	}
	if err != nil {
		r.logger.Warn("redis get failed, treating as miss", zap.Int64("user_id", id), zap.Error(err))
		return domain.User{}, false, nil
	}

	var u domain.User
	if err := json.Unmarshal(val, &u); err != nil {
		r.logger.Warn("corrupted cache entry", zap.Int64("user_id", id), zap.Error(err))
		return domain.User{}, false, nil
	}
	return u, true, nil
}

func (r *Redis) Store(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, Key(user.ID()), data, r.ttl).Err()
}
