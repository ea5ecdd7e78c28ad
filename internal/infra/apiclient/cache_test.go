package apiclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
)

func newCachedFixture(t *testing.T) (*CachedClient, *miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	base, fake := newFakeClient(t)
	fake.SeedTask(domain.Task{ID: 1, TaskName: "a", Priority: domain.PriorityMedium, Visibility: domain.VisibilityPublic})
	return NewCachedClient(base, rdb, time.Minute, nil), mr, base
}

func TestCachedClient_ReadThrough(t *testing.T) {
	c, mr, base := newCachedFixture(t)
	ctx := context.Background()
	key := tasksCacheKey(base.BaseURL())

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	// Changes made behind the cache stay hidden until eviction.
	_, err = base.ChangePriority(ctx, 1, domain.PriorityHigh)
	require.NoError(t, err)
	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, tasks[0].Priority)
}

func TestCachedClient_MutationsEvict(t *testing.T) {
	c, mr, base := newCachedFixture(t)
	ctx := context.Background()
	key := tasksCacheKey(base.BaseURL())

	_, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(key))

	_, err = c.ChangePriority(ctx, 1, domain.PriorityHigh)
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)

	require.NoError(t, c.DeleteTask(ctx, 1))
	assert.False(t, mr.Exists(key))
}

func TestCachedClient_FailedMutationKeepsEntry(t *testing.T) {
	c, mr, base := newCachedFixture(t)
	ctx := context.Background()
	key := tasksCacheKey(base.BaseURL())

	_, err := c.ListTasks(ctx)
	require.NoError(t, err)

	_, err = c.ChangePriority(ctx, 404, domain.PriorityHigh)
	require.Error(t, err)
	assert.True(t, mr.Exists(key))
}

func TestCachedClient_CorruptEntryIsDropped(t *testing.T) {
	c, mr, base := newCachedFixture(t)
	key := tasksCacheKey(base.BaseURL())
	require.NoError(t, mr.Set(key, "{not json"))

	tasks, err := c.ListTasks(context.Background())

	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.NotEqual(t, "{not json", got)
}

func TestCachedClient_NilRedisPassesThrough(t *testing.T) {
	base, fake := newFakeClient(t)
	fake.SeedTask(domain.Task{ID: 1, TaskName: "a", Priority: domain.PriorityNormal, Visibility: domain.VisibilityPublic})
	c := NewCachedClient(base, nil, time.Minute, nil)

	tasks, err := c.ListTasks(context.Background())

	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
