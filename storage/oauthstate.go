package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ideahub/ideahub/pkg/auth"
)

// ErrStateNotFound reports a state token that was never stored, expired,
// or was already consumed.
var ErrStateNotFound = errors.New("oauth state not found")

const stateKeyPrefix = "oauth:state:"

// RedisStateStore keeps one-time OAuth CSRF state tokens in Redis with a
// TTL. Consumption is a single GETDEL, so a replayed state cannot pass
// twice even under concurrent callbacks.
type RedisStateStore struct {
	client redis.UniversalClient
}

// NewRedisStateStore creates a state store over the given client.
func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) ConsumeState(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return ErrStateNotFound
	}
	if err != nil {
		return fmt.Errorf("consume oauth state: %w", err)
	}
	return nil
}

var _ auth.StateStore = (*RedisStateStore)(nil)

// MemoryStateStore is an in-memory StateStore for tests and local runs.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]time.Time)}
}

func (s *MemoryStateStore) StoreState(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStateStore) ConsumeState(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.states[state]
	if !ok {
		return ErrStateNotFound
	}
	delete(s.states, state)
	if time.Now().After(deadline) {
		return ErrStateNotFound
	}
	return nil
}

var _ auth.StateStore = (*MemoryStateStore)(nil)
