package waitlist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	subscriberKeyPrefix = "subscriber:"
	subscriberListKey   = "subscribers"
)

// RedisRepository keeps one key per email plus an append-only list used for
// enumeration. The two writes are not atomic: if the list append fails the
// per-email key still exists.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository wraps an existing client. The repository owns the client
// and closes it in Close.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// NewRedisRepositoryFromURL parses a redis:// or rediss:// URL.
func NewRedisRepositoryFromURL(rawURL string) (*RedisRepository, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse kv url: %w", err)
	}
	return NewRedisRepository(redis.NewClient(opts)), nil
}

func (r *RedisRepository) Name() string { return "kv" }

// Ping is the liveness probe used during backend selection.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Add(ctx context.Context, sub Subscriber) error {
	key := subscriberKeyPrefix + sub.Email

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("lookup subscriber: %w", err)
	}
	if exists > 0 {
		return ErrDuplicate
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode subscriber: %w", err)
	}

	stored, err := r.client.SetNX(ctx, key, payload, 0).Result()
	if err != nil {
		return fmt.Errorf("store subscriber: %w", err)
	}
	if !stored {
		return ErrDuplicate
	}

	if err := r.client.RPush(ctx, subscriberListKey, payload).Err(); err != nil {
		return fmt.Errorf("append subscriber list: %w", err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context) ([]Subscriber, error) {
	raw, err := r.client.LRange(ctx, subscriberListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read subscriber list: %w", err)
	}

	subscribers := make([]Subscriber, 0, len(raw))
	for _, item := range raw {
		var sub Subscriber
		if err := json.Unmarshal([]byte(item), &sub); err != nil {
			return nil, fmt.Errorf("decode subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
