package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix = "fsm:state:"
	dataKeyPrefix  = "fsm:data:"
	defaultTTL     = 24 * time.Hour
)

// ErrNotFound is returned when session data is absent
var ErrNotFound = errors.New("data not found")

// Connect parses a redis URI and verifies the server is reachable
func Connect(uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis URI: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

type FSM struct {
	client *redis.Client
}

func NewFSM(client *redis.Client) *FSM {
	return &FSM{client: client}
}

// SetState sets the current state for a user
func (f *FSM) SetState(ctx context.Context, userID string, state domain.State) error {
	key := stateKeyPrefix + userID
	return f.client.Set(ctx, key, string(state), defaultTTL).Err()
}

// GetState gets the current state for a user
func (f *FSM) GetState(ctx context.Context, userID string) (domain.State, error) {
	key := stateKeyPrefix + userID
	val, err := f.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return domain.StateStart, nil
	}
	if err != nil {
		return "", fmt.Errorf("get state: %w", err)
	}
	return domain.State(val), nil
}

// DeleteState deletes the state for a user
func (f *FSM) DeleteState(ctx context.Context, userID string) error {
	key := stateKeyPrefix + userID
	return f.client.Del(ctx, key).Err()
}

// SetData sets temporary data for a user's current session
func (f *FSM) SetData(ctx context.Context, userID, key, value string) error {
	return f.client.Set(ctx, dataKey(userID, key), value, defaultTTL).Err()
}

// GetData gets temporary data for a user's current session
func (f *FSM) GetData(ctx context.Context, userID, key string) (string, error) {
	val, err := f.client.Get(ctx, dataKey(userID, key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get data: %w", err)
	}
	return val, nil
}

// DeleteData deletes temporary data for a user
func (f *FSM) DeleteData(ctx context.Context, userID, key string) error {
	return f.client.Del(ctx, dataKey(userID, key)).Err()
}

func dataKey(userID, key string) string {
	return fmt.Sprintf("%s%s:%s", dataKeyPrefix, userID, key)
}
