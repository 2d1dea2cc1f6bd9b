package credential

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keySegment   = "cred"
	fieldAccess  = "access"
	fieldRefresh = "refresh"
)

// RedisStore persists the credential pair in a single namespaced Redis hash.
//
// Holding both slots under one key makes Set (one HSET) and Clear (one DEL) atomic
// over the whole pair, so a reader never observes a rotated access token next to a
// stale refresh token.
type RedisStore struct {
	redis     redis.UniversalClient
	prefix    string
	namespace string
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client redis.UniversalClient, prefix, namespace string) *RedisStore {
	if prefix == "" {
		prefix = "ac"
	}
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStore{
		redis:     client,
		prefix:    prefix,
		namespace: namespace,
	}
}

func (s *RedisStore) key() string {
	return s.prefix + ":" + keySegment + ":" + s.namespace
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Get(ctx context.Context) (Pair, error) {
	fields, err := s.redis.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(fields) == 0 {
		return Pair{}, ErrNotFound
	}

	pair := Pair{
		AccessToken:  fields[fieldAccess],
		RefreshToken: fields[fieldRefresh],
	}
	if pair.Empty() {
		return Pair{}, ErrNotFound
	}
	return pair, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Set(ctx context.Context, pair Pair) error {
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return ErrIncompletePair
	}

	err := s.redis.HSet(ctx, s.key(),
		fieldAccess, pair.AccessToken,
		fieldRefresh, pair.RefreshToken,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
