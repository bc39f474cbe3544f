package posts

import (
	"slices"

	"github.com/aretw0/tendril/pkg/domain"
)

// Reduce is the posts reducer.
func Reduce(state *State, action domain.Action) State {
	if state == nil {
		return Initial()
	}
	s := *state

	switch action.Type {
	case ActionPostAdded, ActionAddFulfilled:
		post, ok := action.Payload.(domain.Post)
		if !ok {
			return s
		}
		s.Posts = upsert(slices.Clone(s.Posts), post)
		return s

	case ActionPostUpdated:
		upd, ok := action.Payload.(PostUpdate)
		if !ok {
			return s
		}
		i := s.index(upd.ID)
		if i < 0 {
			return s
		}
		s.Posts = slices.Clone(s.Posts)
		s.Posts[i].Title = upd.Title
		s.Posts[i].Content = upd.Content
		return s

	case ActionPostRemoved:
		rm, ok := action.Payload.(PostRemoval)
		if !ok {
			return s
		}
		i := s.index(rm.ID)
		if i < 0 {
			return s
		}
		s.Posts = slices.Delete(slices.Clone(s.Posts), i, i+1)
		return s

	case ActionReactionAdded:
		// Unlike the reference app, the fetch status is left alone: a
		// reaction says nothing about whether the list is loaded.
		r, ok := action.Payload.(ReactionAdd)
		if !ok {
			return s
		}
		i := s.index(r.PostID)
		if i < 0 {
			return s
		}
		s.Posts = slices.Clone(s.Posts)
		reactions := s.Posts[i].Reactions.Clone()
		if reactions == nil {
			reactions = domain.Reactions{}
		}
		reactions[r.Reaction]++
		s.Posts[i].Reactions = reactions
		return s

	case ActionFetchPending:
		s.Status = domain.StatusLoading
		return s

	case ActionFetchFulfilled:
		list, ok := action.Payload.([]domain.Post)
		if !ok {
			return s
		}
		s.Status = domain.StatusSucceeded
		s.Error = ""
		merged := slices.Clone(s.Posts)
		for _, p := range list {
			merged = upsert(merged, p)
		}
		s.Posts = merged
		return s

	case ActionFetchRejected:
		s.Status = domain.StatusFailed
		s.Error = action.ErrorMessage()
		return s

	default:
		return s
	}
}

// upsert replaces the post with the same id in place, or appends it.
// posts must already be a private copy.
func upsert(posts []domain.Post, p domain.Post) []domain.Post {
	for i := range posts {
		if posts[i].ID == p.ID {
			posts[i] = p.Clone()
			return posts
		}
	}
	return append(posts, p.Clone())
}
