package domain

import "maps"

// Todo is an item of the todo list.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Reactions maps a reaction name to its count.
type Reactions map[string]int

// Reaction names offered by default on every new post.
const (
	ReactionThumbsUp = "thumbsUp"
	ReactionHooray   = "hooray"
	ReactionHeart    = "heart"
	ReactionRocket   = "rocket"
	ReactionEyes     = "eyes"
)

// DefaultReactions returns a fresh set of zeroed reaction counters.
func DefaultReactions() Reactions {
	return Reactions{
		ReactionThumbsUp: 0,
		ReactionHooray:   0,
		ReactionHeart:    0,
		ReactionRocket:   0,
		ReactionEyes:     0,
	}
}

// Clone returns an independent copy.
func (r Reactions) Clone() Reactions {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Post is a message written by a user.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	User      string    `json:"user"` // User.ID of the author
	Date      string    `json:"date"` // RFC 3339
	Reactions Reactions `json:"reactions"`
}

// Clone returns a copy that shares no mutable data with p.
func (p Post) Clone() Post {
	p.Reactions = p.Reactions.Clone()
	return p
}

// User authors posts.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
