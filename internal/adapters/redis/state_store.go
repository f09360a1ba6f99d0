package redis

// Package redis provides Redis-based adapters for the social login system.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore is a Redis-based store for issued OAuth state values.
// States are single-use: Consume deletes the key atomically with the check,
// so a replayed state can never validate twice, even across replicas.
type StateStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStateStore creates a new Redis-based state store.
func NewStateStore(client redis.UniversalClient) *StateStore {
	return &StateStore{client: client, prefix: "oauth_state:"}
}

// NewStateStoreWithPrefix creates a Redis state store with a custom key prefix.
func NewStateStoreWithPrefix(client redis.UniversalClient, prefix string) *StateStore {
	return &StateStore{client: client, prefix: prefix}
}

// Save records an issued state with the given expiry. A duplicate value is an
// error: state values are 256-bit random strings, so a collision means the
// caller reused one.
func (s *StateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("state ttl must be positive")
	}

	ok, err := s.client.SetNX(ctx, s.prefix+state, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return errors.New("state already issued")
	}
	return nil
}

// Consume atomically checks and discards a state via GETDEL. Unknown and
// expired states both report false; Redis TTL handles expiry.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	_, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis getdel: %w", err)
	}
	return true, nil
}
