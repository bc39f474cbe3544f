package fakeapi

import (
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// DefaultFixtures is the demo data served by `tendril fakeapi`.
func DefaultFixtures() ports.Fixtures {
	reactions := func(thumbsUp, heart int) domain.Reactions {
		r := domain.DefaultReactions()
		r[domain.ReactionThumbsUp] = thumbsUp
		r[domain.ReactionHeart] = heart
		return r
	}
	return ports.Fixtures{
		Todos: []domain.Todo{
			{ID: "1", Text: "hey", Completed: true},
			{ID: "2", Text: "ho", Completed: true},
			{ID: "3", Text: "let's go"},
		},
		Posts: []domain.Post{
			{ID: "1", Title: "First Post!", Content: "Hello!", User: "0", Date: "2024-01-01T10:00:00Z", Reactions: reactions(2, 1)},
			{ID: "2", Title: "Second Post", Content: "More text", User: "2", Date: "2024-01-02T10:00:00Z", Reactions: reactions(0, 3)},
		},
		Users: []domain.User{
			{ID: "0", Name: "Tianna Jenkins"},
			{ID: "1", Name: "Kevin Grant"},
			{ID: "2", Name: "Madison Poem"},
		},
	}
}
