package ports

import (
	"context"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBackendContract runs a suite of tests to verify that a Backend implementation
// adheres to the defined interface contract. The backend must start empty.
func RunBackendContract(t *testing.T, backend Backend) {
	ctx := context.Background()

	t.Run("Add and List Todos", func(t *testing.T) {
		a, err := backend.AddTodo(ctx, "write contract")
		require.NoError(t, err, "AddTodo should not return error")
		assert.NotEmpty(t, a.ID)
		assert.False(t, a.Completed)

		b, err := backend.AddTodo(ctx, "run contract")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID, "ids must be unique")

		all, err := backend.ListTodos(ctx, domain.FilterAll)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, a.ID, all[0].ID, "insertion order is preserved")
		assert.Equal(t, "run contract", all[1].Text)
	})

	t.Run("Toggle and Filter", func(t *testing.T) {
		all, err := backend.ListTodos(ctx, domain.FilterAll)
		require.NoError(t, err)
		require.NotEmpty(t, all)
		id := all[0].ID

		toggled, err := backend.ToggleTodo(ctx, id)
		require.NoError(t, err)
		assert.True(t, toggled.Completed)

		completed, err := backend.ListTodos(ctx, domain.FilterCompleted)
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, id, completed[0].ID)

		active, err := backend.ListTodos(ctx, domain.FilterActive)
		require.NoError(t, err)
		for _, todo := range active {
			assert.NotEqual(t, id, todo.ID)
		}

		toggled, err = backend.ToggleTodo(ctx, id)
		require.NoError(t, err)
		assert.False(t, toggled.Completed)
	})

	t.Run("Toggle Non-Existent", func(t *testing.T) {
		_, err := backend.ToggleTodo(ctx, "non-existent")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Add and List Posts", func(t *testing.T) {
		saved, err := backend.AddPost(ctx, domain.Post{Title: "Hello", Content: "World", User: "0"})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.NotEmpty(t, saved.Date)
		assert.Equal(t, 0, saved.Reactions[domain.ReactionHeart])

		posts, err := backend.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, saved, posts[0])
	})

	t.Run("List Users", func(t *testing.T) {
		users, err := backend.ListUsers(ctx)
		require.NoError(t, err)
		assert.NotNil(t, users)
	})
}

// RunSeederContract verifies that seeded content is served unchanged.
// The backend must start empty.
func RunSeederContract(t *testing.T, backend interface {
	Backend
	Seeder
}) {
	ctx := context.Background()
	fx := Fixtures{
		Todos: []domain.Todo{{ID: "t1", Text: "hey", Completed: true}, {ID: "t2", Text: "ho"}},
		Posts: []domain.Post{{ID: "p1", Title: "First", User: "u1", Date: "2024-01-01T00:00:00Z", Reactions: domain.DefaultReactions()}},
		Users: []domain.User{{ID: "u1", Name: "Ada"}},
	}

	require.NoError(t, backend.Seed(ctx, fx))

	todos, err := backend.ListTodos(ctx, domain.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, fx.Todos, todos)

	active, err := backend.ListTodos(ctx, domain.FilterActive)
	require.NoError(t, err)
	assert.Equal(t, fx.Todos[1:], active)

	posts, err := backend.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, fx.Posts, posts)

	users, err := backend.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, fx.Users, users)

	toggled, err := backend.ToggleTodo(ctx, "t2")
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
}
