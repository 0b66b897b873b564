package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
)

const redisKeyPrefix = "weatherbot:conv:"

// RedisStore persists conversation states in Redis as JSON with a TTL, so
// idle conversations expire without a sweeper.
type RedisStore struct {
	client *backend.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A ttl of zero keeps states forever.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreFromClient wraps an existing client (used by tests).
func NewRedisStoreFromClient(client *backend.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(conversationID string) string {
	return redisKeyPrefix + conversationID
}

// Get loads the conversation state, returning a fresh empty state for an
// unknown or expired id.
func (s *RedisStore) Get(ctx context.Context, conversationID string) (*dialog.State, error) {
	val, err := s.client.Get(ctx, s.key(conversationID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return dialog.NewState(), nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	st := dialog.NewState()
	if err := json.Unmarshal([]byte(val), st); err != nil {
		return nil, fmt.Errorf("unmarshal conversation state: %w", err)
	}
	if st.Slots == nil {
		st.Slots = make(map[dialog.SlotType]string)
	}
	return st, nil
}

// Put writes the conversation state back, refreshing the TTL.
func (s *RedisStore) Put(ctx context.Context, conversationID string, st *dialog.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
