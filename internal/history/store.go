package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tictacroom/internal/room"
)

// Record is one finished-game entry in a user's history.
type Record struct {
	Opponent  string      `json:"opponent"`
	Result    string      `json:"result"` // "win", "loss" or "draw"
	Steps     []room.Move `json:"steps"`
	Winner    string      `json:"winner,omitempty"` // winner's username, empty for a draw
	CreatedAt time.Time   `json:"created_at"`
}

// Store defines the interface for durable game-history operations.
type Store interface {
	Append(ctx context.Context, username string, rec Record) error
	Read(ctx context.Context, username string) ([]Record, error)
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Redis-based Store. Each user's history is an
// append-only list under history:<username>.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func historyKey(username string) string {
	return fmt.Sprintf("history:%s", username)
}

// Append pushes a record onto the tail of the user's history list.
func (s *redisStore) Append(ctx context.Context, username string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}
	if err := s.rdb.RPush(ctx, historyKey(username), data).Err(); err != nil {
		return fmt.Errorf("failed to append history for %s: %w", username, err)
	}
	return nil
}

// Read returns the user's records in the order they were appended.
func (s *redisStore) Read(ctx context.Context, username string) ([]Record, error) {
	raw, err := s.rdb.LRange(ctx, historyKey(username), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", username, err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
