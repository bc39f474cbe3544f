package posts

import "github.com/aretw0/tendril/pkg/domain"

// SelectAllPosts returns a copy of every post in insertion order.
func SelectAllPosts(s State) []domain.Post {
	out := make([]domain.Post, len(s.Posts))
	for i, p := range s.Posts {
		out[i] = p.Clone()
	}
	return out
}

// SelectPostByID returns the post with the given id.
func SelectPostByID(s State, id string) (domain.Post, bool) {
	i := s.index(id)
	if i < 0 {
		return domain.Post{}, false
	}
	return s.Posts[i].Clone(), true
}

// SelectPostsByUser returns the posts written by userID.
func SelectPostsByUser(s State, userID string) []domain.Post {
	out := []domain.Post{}
	for _, p := range s.Posts {
		if p.User == userID {
			out = append(out, p.Clone())
		}
	}
	return out
}
