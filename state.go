package tendril

import (
	"github.com/aretw0/tendril/pkg/counter"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/posts"
	"github.com/aretw0/tendril/pkg/store"
	"github.com/aretw0/tendril/pkg/todos"
	"github.com/aretw0/tendril/pkg/users"
)

// State is the root state tree.
type State struct {
	Counter int         `json:"counter"`
	Todos   todos.State `json:"todos"`
	Posts   posts.State `json:"posts"`
	Users   users.State `json:"users"`
}

// Reduce is the root reducer: each slice is reduced independently.
func Reduce(state *State, action domain.Action) State {
	return State{
		Counter: counter.Reduce(store.Sub(state, func(s *State) *int { return &s.Counter }), action),
		Todos:   todos.Reduce(store.Sub(state, func(s *State) *todos.State { return &s.Todos }), action),
		Posts:   posts.Reduce(store.Sub(state, func(s *State) *posts.State { return &s.Posts }), action),
		Users:   users.Reduce(store.Sub(state, func(s *State) *users.State { return &s.Users }), action),
	}
}

// Payloads returns the payload table of every domain, for codec registries.
func Payloads() []map[string]any {
	return []map[string]any{
		counter.Payloads(),
		todos.Payloads(),
		posts.Payloads(),
		users.Payloads(),
	}
}

func selectTodos(s State) todos.State { return s.Todos }

// VisibleTodos returns the todos of a filter in server order.
func VisibleTodos(s State, f domain.Filter) []domain.Todo {
	return todos.GetVisibleTodos(s.Todos, f)
}

// IsFetching reports whether a fetch for the filter is in flight.
func IsFetching(s State, f domain.Filter) bool {
	return todos.GetIsFetching(s.Todos, f)
}

// ErrorMessage returns the last fetch error of the filter, if any.
func ErrorMessage(s State, f domain.Filter) string {
	return todos.GetErrorMessage(s.Todos, f)
}

// AllPosts returns every post.
func AllPosts(s State) []domain.Post {
	return posts.SelectAllPosts(s.Posts)
}

// PostByID returns a post by id.
func PostByID(s State, id string) (domain.Post, bool) {
	return posts.SelectPostByID(s.Posts, id)
}

// AllUsers returns every user.
func AllUsers(s State) []domain.User {
	return users.SelectAllUsers(s.Users)
}

// UserByID returns a user by id.
func UserByID(s State, id string) (domain.User, bool) {
	return users.SelectUserByID(s.Users, id)
}
