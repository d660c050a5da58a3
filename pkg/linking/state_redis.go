package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

const redisKeyPrefix = "linking:state:"

// RedisStateStore keeps pending flows in Redis, leaning on its native TTL
// for expiry so abandoned flows cost nothing to clean up.
type RedisStateStore struct {
	client redis.UniversalClient
	gen    secretgen.Generator
	now    func() time.Time
}

// NewRedisStateStore creates a state store backed by the given client.
func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		gen:    secretgen.New(),
		now:    time.Now,
	}
}

func (s *RedisStateStore) Save(ctx context.Context, state *State) (string, error) {
	key, err := s.gen.Token()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("marshal linking state: %w", err)
	}

	ttl := state.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", ErrStateExpired
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("save linking state: %w", err)
	}
	return key, nil
}

func (s *RedisStateStore) Load(ctx context.Context, key string) (*State, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load linking state: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, ErrStateNotFound
	}
	if state.Expired(s.now()) {
		return nil, ErrStateExpired
	}
	return &state, nil
}

func (s *RedisStateStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("clear linking state: %w", err)
	}
	return nil
}
