package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/game"
)

// Key pattern: arcane:game:{game_id}
const gameKeyPrefix = "arcane:game:"

type redisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore stores snapshots as JSON with a sliding ttl, refreshed on
// every save.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		ttl = constants.DefaultRedisTTL
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

var _ Store = (*redisStore)(nil)

func buildKey(gameID string) string { return gameKeyPrefix + gameID }

func (r *redisStore) Get(ctx context.Context, gameID string) (*game.State, error) {
	raw, err := r.client.Get(ctx, buildKey(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game from redis: %w", err)
	}
	var s game.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, s *game.State) error {
	if s == nil || s.ID == "" {
		return errors.New("game state with an id is required")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}
	if err := r.client.Set(ctx, buildKey(s.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store game in redis: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, gameID string) error {
	if err := r.client.Del(ctx, buildKey(gameID)).Err(); err != nil {
		return fmt.Errorf("failed to delete game from redis: %w", err)
	}
	return nil
}
