package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiinterviewer/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionCache(client, ttl), mr
}

func TestSessionCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	sess := &model.Session{ID: "abc", Topic: "wellness", MaxTurns: 4, TurnIndex: 2, ProbeCount: 1, Status: model.SessionActive}
	sess.AppendTurn(model.RoleQuestion, "How do you start your day?", false, time.Now())
	require.NoError(t, c.PutSession(ctx, sess))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	got, err := c.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.TurnIndex)
	assert.Equal(t, 1, got.ProbeCount)
	assert.Equal(t, "How do you start your day?", got.LastQuestion())
}

func TestSessionCacheMissingAndExpired(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	got, err := c.GetSession(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.PutSession(ctx, &model.Session{ID: "short"}))
	mr.FastForward(2 * time.Minute)

	got, err = c.GetSession(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCacheDelete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.PutSession(ctx, &model.Session{ID: "gone"}))
	require.NoError(t, c.DeleteSession(ctx, "gone"))

	got, err := c.GetSession(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCacheReportsConnectionErrors(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, err := c.GetSession(context.Background(), "any")
	assert.Error(t, err)
}
