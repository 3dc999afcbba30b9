package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis implementation of app.SessionRepository.
// Sessions are stored as: SET quiz:session:{userID} {tokenID} EX ttl
// so a newer login overwrites the previous token id and expiry is handled by Redis.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Put(ctx context.Context, userID int64, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(userID), tokenID, ttl).Err()
}

func (s *SessionStore) Current(ctx context.Context, userID int64) (string, bool, error) {
	tokenID, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return tokenID, true, nil
}

func (s *SessionStore) key(userID int64) string {
	return "quiz:session:" + strconv.FormatInt(userID, 10)
}
