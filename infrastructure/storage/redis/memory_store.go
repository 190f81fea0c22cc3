package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/autopilot/domain/memory"
)

// MemoryStore is a Redis-backed implementation of memory.Store. Entries are
// held per agent in a sorted set scored by creation time, so range reads come
// back oldest first without a secondary index.
type MemoryStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewMemoryStore creates a Redis-backed episodic store with the given
// configuration. The connection is verified with a ping before use.
func NewMemoryStore(cfg Config, opts ...ConfigOption) (*MemoryStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConfig().ConnectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.ConnectTimeout,
		PoolSize:    cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(memory.ErrConnectionFailed, err)
	}

	return &MemoryStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// NewMemoryStoreFromClient creates a store from an existing Redis client.
func NewMemoryStoreFromClient(client *redis.Client, keyPrefix string) *MemoryStore {
	return &MemoryStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// agentKey builds the sorted-set key for an agent's episodic log.
func (s *MemoryStore) agentKey(agentID string) string {
	return s.keyPrefix + "memory:" + agentID
}

// Store appends an entry to the agent's episodic log.
func (s *MemoryStore) Store(ctx context.Context, entry memory.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.AgentID == "" {
		return fmt.Errorf("%w: missing agent ID", memory.ErrInvalidEntry)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}

	score := float64(entry.CreatedAt.UnixNano())
	if err := s.client.ZAdd(ctx, s.agentKey(entry.AgentID), redis.Z{
		Score:  score,
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}
	return nil
}

// List returns entries for an agent, oldest first, matching the filter.
func (s *MemoryStore) List(ctx context.Context, agentID string, filter memory.ListFilter) ([]memory.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	min := "-inf"
	if !filter.FromTime.IsZero() {
		min = "(" + strconv.FormatInt(filter.FromTime.UnixNano(), 10)
	}

	raw, err := s.client.ZRangeByScore(ctx, s.agentKey(agentID), &redis.ZRangeBy{
		Min: min,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	entries := make([]memory.Entry, 0, len(raw))
	for _, item := range raw {
		var e memory.Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decoding entry: %w", err)
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		entries = append(entries, e)
		if filter.Limit > 0 && len(entries) >= filter.Limit {
			break
		}
	}
	return entries, nil
}

// Count returns the number of entries held for an agent.
func (s *MemoryStore) Count(ctx context.Context, agentID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.client.ZCard(ctx, s.agentKey(agentID)).Result()
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Ping checks the Redis connection.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client for advanced operations.
func (s *MemoryStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *MemoryStore) Close() error {
	return s.client.Close()
}

// Ensure MemoryStore implements memory.Store
var _ memory.Store = (*MemoryStore)(nil)
