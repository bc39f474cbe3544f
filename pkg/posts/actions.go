package posts

import (
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/store"
)

// Action types handled by Reduce.
const (
	ActionPostAdded     = "posts/postAdded"
	ActionPostUpdated   = "posts/postUpdated"
	ActionPostRemoved   = "posts/postRemoved"
	ActionReactionAdded = "posts/reactionAdded"

	PrefixFetchPosts = "posts/fetchPosts"
	PrefixAddNewPost = "posts/addNewPost"

	ActionFetchPending   = PrefixFetchPosts + store.SuffixPending
	ActionFetchFulfilled = PrefixFetchPosts + store.SuffixFulfilled
	ActionFetchRejected  = PrefixFetchPosts + store.SuffixRejected
	ActionAddFulfilled   = PrefixAddNewPost + store.SuffixFulfilled
)

// PostUpdate is the payload of posts/postUpdated.
type PostUpdate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostRemoval is the payload of posts/postRemoved.
type PostRemoval struct {
	ID string `json:"id"`
}

// ReactionAdd is the payload of posts/reactionAdded.
type ReactionAdd struct {
	PostID   string `json:"postId"`
	Reaction string `json:"reaction"`
}

// PostAdded creates a posts/postAdded action with a fresh id, the current date
// and zeroed reactions.
func PostAdded(title, content, userID string) domain.Action {
	return PreparePostAdded(domain.DefaultPreparer, title, content, userID)
}

// PreparePostAdded is PostAdded with an explicit source of ids and time.
func PreparePostAdded(p domain.Preparer, title, content, userID string) domain.Action {
	return domain.Action{
		Type: ActionPostAdded,
		Payload: domain.Post{
			ID:        p.ID(),
			Title:     title,
			Content:   content,
			User:      userID,
			Date:      p.Timestamp(),
			Reactions: domain.DefaultReactions(),
		},
	}
}

// PostUpdated creates a posts/postUpdated action.
func PostUpdated(id, title, content string) domain.Action {
	return domain.Action{Type: ActionPostUpdated, Payload: PostUpdate{ID: id, Title: title, Content: content}}
}

// PostRemoved creates a posts/postRemoved action.
func PostRemoved(id string) domain.Action {
	return domain.Action{Type: ActionPostRemoved, Payload: PostRemoval{ID: id}}
}

// ReactionAdded creates a posts/reactionAdded action.
func ReactionAdded(postID, reaction string) domain.Action {
	return domain.Action{Type: ActionReactionAdded, Payload: ReactionAdd{PostID: postID, Reaction: reaction}}
}

// Payloads maps each action type to its payload prototype, for decoders.
// Lifecycle actions of the fetch thunk carry no decodable payload on pending
// and rejected.
func Payloads() map[string]any {
	return map[string]any{
		ActionPostAdded:      domain.Post{},
		ActionPostUpdated:    PostUpdate{},
		ActionPostRemoved:    PostRemoval{},
		ActionReactionAdded:  ReactionAdd{},
		ActionFetchFulfilled: []domain.Post{},
		ActionAddFulfilled:   domain.Post{},
	}
}
