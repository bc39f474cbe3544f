package users

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/store"
)

// State is the users slice.
type State []domain.User

// Action types handled by Reduce.
const (
	ActionUserAdded = "users/userAdded"

	PrefixFetchUsers     = "users/fetchUsers"
	ActionFetchFulfilled = PrefixFetchUsers + store.SuffixFulfilled
)

// Initial returns the seeded users.
func Initial() State {
	return State{
		{ID: "0", Name: "Tianna Jenkins"},
		{ID: "1", Name: "Kevin Grant"},
		{ID: "2", Name: "Madison Poem"},
	}
}

// Reduce is the users reducer.
func Reduce(state *State, action domain.Action) State {
	if state == nil {
		return Initial()
	}

	switch action.Type {
	case ActionUserAdded:
		u, ok := action.Payload.(domain.User)
		if !ok {
			return *state
		}
		next := slices.Clone(*state)
		if i := slices.IndexFunc(next, func(x domain.User) bool { return x.ID == u.ID }); i >= 0 {
			next[i] = u
			return next
		}
		return append(next, u)

	case ActionFetchFulfilled:
		list, ok := action.Payload.([]domain.User)
		if !ok {
			return *state
		}
		return State(slices.Clone(list))

	default:
		return *state
	}
}

// UserAdded creates a users/userAdded action with a fresh id.
func UserAdded(name string) domain.Action {
	return PrepareUserAdded(domain.DefaultPreparer, name)
}

// PrepareUserAdded is UserAdded with an explicit id source.
func PrepareUserAdded(p domain.Preparer, name string) domain.Action {
	return domain.Action{Type: ActionUserAdded, Payload: domain.User{ID: p.ID(), Name: name}}
}

// SelectAllUsers returns a copy of the list.
func SelectAllUsers(s State) []domain.User {
	return slices.Clone([]domain.User(s))
}

// SelectUserByID returns the user with the given id.
func SelectUserByID(s State, id string) (domain.User, bool) {
	for _, u := range s {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// FetchUsers replaces the list with the server's.
func FetchUsers[S any](client ports.Client) store.Thunk[S] {
	return store.AsyncThunk(PrefixFetchUsers, func(ctx context.Context, _ func() S) ([]domain.User, error) {
		resp, err := client.Get(ctx, "/fakeApi/users")
		if err != nil {
			return nil, err
		}
		var body struct {
			Users []domain.User `json:"users"`
		}
		if err := resp.Decode(&body); err != nil {
			return nil, fmt.Errorf("users: %w", err)
		}
		if body.Users == nil {
			body.Users = []domain.User{}
		}
		return body.Users, nil
	})
}

// Payloads maps each action type to its payload prototype, for decoders.
func Payloads() map[string]any {
	return map[string]any{
		ActionUserAdded:      domain.User{},
		ActionFetchFulfilled: []domain.User{},
	}
}
