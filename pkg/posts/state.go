package posts

import "github.com/aretw0/tendril/pkg/domain"

// State is the posts slice.
type State struct {
	Posts  []domain.Post      `json:"posts"`
	Status domain.FetchStatus `json:"status"`
	Error  string             `json:"error,omitempty"`
}

// Initial returns the empty, idle state.
func Initial() State {
	return State{
		Posts:  []domain.Post{},
		Status: domain.StatusIdle,
	}
}

func (s State) index(id string) int {
	for i, p := range s.Posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
