package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Backend implements ports.Backend in memory.
// Safe for concurrent use.
type Backend struct {
	mu    sync.RWMutex
	todos []domain.Todo
	posts []domain.Post
	users []domain.User

	prep domain.Preparer
}

// Option configures a Backend.
type Option func(*Backend)

// WithPreparer sets the source of ids and dates for new records.
func WithPreparer(p domain.Preparer) Option {
	return func(b *Backend) {
		b.prep = p
	}
}

// NewBackend creates an empty in-memory backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		todos: []domain.Todo{},
		posts: []domain.Post{},
		users: []domain.User{},
		prep:  domain.DefaultPreparer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Seed appends fixtures, keeping their ids.
func (b *Backend) Seed(ctx context.Context, fx ports.Fixtures) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.todos = append(b.todos, fx.Todos...)
	for _, p := range fx.Posts {
		b.posts = append(b.posts, p.Clone())
	}
	b.users = append(b.users, fx.Users...)
	return nil
}

// ListTodos returns the todos matching filter.
func (b *Backend) ListTodos(ctx context.Context, filter domain.Filter) ([]domain.Todo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Todo, 0, len(b.todos))
	for _, t := range b.todos {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddTodo stores a new active todo.
func (b *Backend) AddTodo(ctx context.Context, text string) (domain.Todo, error) {
	todo := domain.Todo{ID: b.prep.ID(), Text: text}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.todos = append(b.todos, todo)
	return todo, nil
}

// ToggleTodo flips the completed flag of a todo.
func (b *Backend) ToggleTodo(ctx context.Context, id string) (domain.Todo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.todos, func(t domain.Todo) bool { return t.ID == id })
	if i < 0 {
		return domain.Todo{}, domain.ErrNotFound
	}
	b.todos[i].Completed = !b.todos[i].Completed
	return b.todos[i], nil
}

// ListPosts returns copies of every post.
func (b *Backend) ListPosts(ctx context.Context) ([]domain.Post, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Post, len(b.posts))
	for i, p := range b.posts {
		out[i] = p.Clone()
	}
	return out, nil
}

// AddPost stores a post, filling in id, date and reactions when missing.
func (b *Backend) AddPost(ctx context.Context, post domain.Post) (domain.Post, error) {
	post = ports.CompletePost(b.prep, post)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts = append(b.posts, post.Clone())
	return post, nil
}

// ListUsers returns every user.
func (b *Backend) ListUsers(ctx context.Context) ([]domain.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.users), nil
}
