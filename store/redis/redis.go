// Package redis stores research briefs in Redis, one list per user.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps each user's briefs in a Redis list.
type HistoryStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Options configuration for Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "research:"
	TTL      time.Duration // Expiration of a user's history, refreshed on every save. Zero keeps it forever.
}

// NewHistoryStore creates a Redis-backed store. It does not connect until
// first use; call Ping to check the server.
func NewHistoryStore(opts Options) *HistoryStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "research:"
	}

	return &HistoryStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *HistoryStore) userKey(userID string) string {
	return fmt.Sprintf("%sbriefs:%s", s.prefix, userID)
}

// Ping checks the connection.
func (s *HistoryStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// SaveBrief appends a brief to the user's list.
func (s *HistoryStore) SaveBrief(ctx context.Context, userID string, brief research.FinalBrief) error {
	data, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("failed to marshal brief: %w", err)
	}

	key := s.userKey(userID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save brief to redis: %w", err)
	}
	return nil
}

// GetBriefsForUser returns the user's briefs, oldest first.
func (s *HistoryStore) GetBriefsForUser(ctx context.Context, userID string) ([]research.FinalBrief, error) {
	items, err := s.client.LRange(ctx, s.userKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load briefs for user %s: %w", userID, err)
	}

	briefs := make([]research.FinalBrief, 0, len(items))
	for _, item := range items {
		var brief research.FinalBrief
		if err := json.Unmarshal([]byte(item), &brief); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brief: %w", err)
		}
		briefs = append(briefs, brief)
	}
	return briefs, nil
}

// Clear removes all briefs of userID.
func (s *HistoryStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.userKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear briefs: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *HistoryStore) Close() error {
	return s.client.Close()
}
