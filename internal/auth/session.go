package auth

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Permission levels a session can grant on campaigns.
const (
	PermissionWrite = "write"
	PermissionRead  = "read"
	PermissionNone  = "none"
)

// Session is the record a caller's cookie resolves to. Campaigns is the
// account-wide permission level; Overrides grants a different level for
// specific campaign ids (keyed by decimal id).
type Session struct {
	UserID    int               `json:"user_id"`
	Campaigns string            `json:"campaigns"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// SessionStore resolves a caller cookie to its session.
type SessionStore interface {
	Get(ctx context.Context, cookie string) (*Session, error)
}

const sessionKeyPrefix = "session:"

// RedisSessionStore reads session JSON blobs from Redis.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) Get(ctx context.Context, cookie string) (*Session, error) {
	val, err := s.Client.Get(ctx, sessionKeyPrefix+cookie).Result()
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

var _ SessionStore = (*RedisSessionStore)(nil)
