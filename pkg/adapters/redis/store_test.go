package redis_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, opts ...redis.Option) (*redis.Backend, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	b := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestRedisBackend_Contract(t *testing.T) {
	b, _ := newBackend(t)
	ports.RunBackendContract(t, b)
}

func TestRedisBackend_Seed(t *testing.T) {
	b, _ := newBackend(t)
	ports.RunSeederContract(t, b)
}

func TestRedisBackend_Prefix(t *testing.T) {
	b, mr := newBackend(t, redis.WithPrefix("app1:"))
	ctx := context.Background()

	require.NoError(t, b.Ping(ctx))
	todo, err := b.AddTodo(ctx, "prefixed")
	require.NoError(t, err)

	assert.True(t, mr.Exists("app1:todos"))
	assert.True(t, mr.Exists("app1:todos:ids"))
	assert.Equal(t, []string{"app1:todos", "app1:todos:ids"}, mr.Keys())
	assert.NotEmpty(t, mr.HGet("app1:todos", todo.ID))
}

func TestRedisBackend_ConcurrentToggles(t *testing.T) {
	b, _ := newBackend(t)
	ctx := context.Background()
	todo, err := b.AddTodo(ctx, "flip")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.ToggleTodo(ctx, todo.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := b.ListTodos(ctx, domain.FilterCompleted)
	require.NoError(t, err)
	assert.Empty(t, list, "an even number of toggles leaves the todo active")
}
