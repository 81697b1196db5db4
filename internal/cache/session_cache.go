package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"aiinterviewer/internal/model"
)

// SessionCache holds live interview sessions. A missing or expired session
// reads as (nil, nil).
type SessionCache interface {
	PutSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis session cache; every put refreshes the TTL
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (c *sessionCache) PutSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "redis session cache: encode")
	}
	return errors.Wrap(c.client.Set(ctx, c.key(session.ID), data, c.ttl).Err(), "redis session cache: set")
}

func (c *sessionCache) GetSession(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis session cache: get")
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "redis session cache: decode")
	}
	return &session, nil
}

func (c *sessionCache) DeleteSession(ctx context.Context, id string) error {
	return errors.Wrap(c.client.Del(ctx, c.key(id)).Err(), "redis session cache: delete")
}
