package posts

import (
	"context"
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/store"
)

// NewPost is the body of POST /fakeApi/posts.
type NewPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	User    string `json:"user"`
}

// FetchPosts loads every post from the server.
func FetchPosts[S any](client ports.Client) store.Thunk[S] {
	return store.AsyncThunk(PrefixFetchPosts, func(ctx context.Context, _ func() S) ([]domain.Post, error) {
		resp, err := client.Get(ctx, "/fakeApi/posts")
		if err != nil {
			return nil, err
		}
		var body struct {
			Posts []domain.Post `json:"posts"`
		}
		if err := resp.Decode(&body); err != nil {
			return nil, fmt.Errorf("posts: %w", err)
		}
		if body.Posts == nil {
			body.Posts = []domain.Post{}
		}
		return body.Posts, nil
	})
}

// AddNewPost saves a post on the server. The server assigns id, date and
// reactions.
func AddNewPost[S any](client ports.Client, post NewPost) store.Thunk[S] {
	return store.AsyncThunk(PrefixAddNewPost, func(ctx context.Context, _ func() S) (domain.Post, error) {
		resp, err := client.Post(ctx, "/fakeApi/posts", post)
		if err != nil {
			return domain.Post{}, err
		}
		var body struct {
			Post domain.Post `json:"post"`
		}
		if err := resp.Decode(&body); err != nil {
			return domain.Post{}, fmt.Errorf("posts: %w", err)
		}
		return body.Post, nil
	})
}
