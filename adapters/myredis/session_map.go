package myredis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mygrid/domain"
	"mygrid/helpers"
	"mygrid/interfaces"
	"mygrid/service"

	"github.com/go-redis/redis/v8"
)

// DefaultSessionPrefix is the key prefix of session records: "<prefix>:<session id>".
const DefaultSessionPrefix = "session"

type redisSessionMap struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionMap creates the Redis implementation of interfaces.SessionMap. Sessions are stored as JSON without
// expiry; the distributor removes them when they end. Panics on nil client or empty prefix.
func NewSessionMap(client redis.UniversalClient, prefix string) interfaces.SessionMap {
	return &redisSessionMap{
		client: helpers.NilPanic(client, "myredis.session_map.go: redis client is required"),
		prefix: helpers.StrPanic(prefix, "myredis.session_map.go: prefix is required"),
	}
}

func (r *redisSessionMap) Add(ctx context.Context, session domain.Session) error {
	bytes, err := json.Marshal(session)
	if err != nil {
		return service.NewUnknownError("Redis marshal session error", fmt.Errorf("can't marshal session %s, err: %w", session.ID, err))
	}

	err = r.client.Set(ctx, r.generateKey(session.ID), bytes, 0).Err()
	if err != nil {
		return service.NewUnknownError("Redis write key error", fmt.Errorf("can't write session to redis (key='%s'), err: %w", session.ID, err))
	}
	return nil
}

func (r *redisSessionMap) Get(ctx context.Context, id string) (domain.Session, error) {
	bytes, err := r.client.Get(ctx, r.generateKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, service.NewInvalidSessionIDError(fmt.Sprintf("no such session %s", id), service.ErrUnknownSession)
	}
	if err != nil {
		return domain.Session{}, service.NewUnknownError("Redis get key error", fmt.Errorf("can't read session from redis (key='%s'), err: %w", id, err))
	}

	var session domain.Session
	if err := json.Unmarshal(bytes, &session); err != nil {
		return domain.Session{}, service.NewUnknownError("Redis unmarshal session error", fmt.Errorf("can't unmarshal session %s, err: %w", id, err))
	}
	return session, nil
}

func (r *redisSessionMap) Remove(ctx context.Context, id string) error {
	err := r.client.Del(ctx, r.generateKey(id)).Err()
	if err != nil {
		return service.NewUnknownError("Redis delete key error", fmt.Errorf("can't delete session from redis (key='%s'), err: %w", id, err))
	}
	return nil
}

func (r *redisSessionMap) generateKey(key string) string {
	return r.prefix + ":" + key
}
