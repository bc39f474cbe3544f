package ports

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// TodoBackend persists the todos served by the fake API.
type TodoBackend interface {
	// ListTodos returns the todos matching filter in insertion order.
	ListTodos(ctx context.Context, filter domain.Filter) ([]domain.Todo, error)

	// AddTodo creates an active todo with a fresh id.
	AddTodo(ctx context.Context, text string) (domain.Todo, error)

	// ToggleTodo flips the completed flag.
	// Returns domain.ErrNotFound if the todo does not exist.
	ToggleTodo(ctx context.Context, id string) (domain.Todo, error)
}

// SocialBackend persists the posts and users served by the fake API.
type SocialBackend interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// AddPost stores a post. Empty ids, dates and reactions are filled in.
	AddPost(ctx context.Context, post domain.Post) (domain.Post, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Backend is the full storage port of the fake API.
type Backend interface {
	TodoBackend
	SocialBackend
}

// Fixtures is the initial content of a Backend.
type Fixtures struct {
	Todos []domain.Todo `json:"todos" yaml:"todos"`
	Posts []domain.Post `json:"posts" yaml:"posts"`
	Users []domain.User `json:"users" yaml:"users"`
}

// Seeder is implemented by backends that can be preloaded.
// Seeding appends to any existing content and keeps the given ids.
type Seeder interface {
	Seed(ctx context.Context, fx Fixtures) error
}

// CompletePost fills the fields a server assigns to a new post.
func CompletePost(p domain.Preparer, post domain.Post) domain.Post {
	if post.ID == "" {
		post.ID = p.ID()
	}
	if post.Date == "" {
		post.Date = p.Timestamp()
	}
	if post.Reactions == nil {
		post.Reactions = domain.DefaultReactions()
	}
	return post
}
