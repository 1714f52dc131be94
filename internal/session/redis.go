package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "alquiler:session:"

// RedisStore keeps sessions in Redis so they survive restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects using a redis:// URL and pings the server.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (Session, error) {
	raw, err := r.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{UserID: userID}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session %d: %w", userID, err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		if delErr := r.client.Del(ctx, key(userID)).Err(); delErr != nil {
			return Session{}, fmt.Errorf("drop corrupt session %d: %w", userID, delErr)
		}
		return Session{UserID: userID}, fmt.Errorf("%w: user %d: %v", ErrCorrupt, userID, err)
	}
	s.UserID = userID
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	s.UpdatedAt = time.Now()
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key(s.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %d: %w", s.UserID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, key(userID)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
