package todos

import "github.com/aretw0/tendril/pkg/domain"

// State is the todos slice of the application state.
type State struct {
	// ByID holds every todo ever received, keyed by id.
	ByID map[string]domain.Todo `json:"byId"`

	// ListByFilter holds, for each filter, the ids the server returned and the
	// bookkeeping of the last fetch.
	ListByFilter Lists `json:"listByFilter"`
}

// List is the per-filter view of the server's todos.
type List struct {
	IDs          []string `json:"ids"`
	IsFetching   bool     `json:"isFetching"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

// Lists has one List per known filter.
type Lists struct {
	All       List `json:"all"`
	Active    List `json:"active"`
	Completed List `json:"completed"`
}

// Get returns the list for a filter.
func (l Lists) Get(f domain.Filter) (List, bool) {
	switch f {
	case domain.FilterAll:
		return l.All, true
	case domain.FilterActive:
		return l.Active, true
	case domain.FilterCompleted:
		return l.Completed, true
	}
	return List{}, false
}

func (l Lists) with(f domain.Filter, list List) Lists {
	switch f {
	case domain.FilterAll:
		l.All = list
	case domain.FilterActive:
		l.Active = list
	case domain.FilterCompleted:
		l.Completed = list
	}
	return l
}

// Initial returns an empty todos state.
func Initial() State {
	return State{
		ByID: map[string]domain.Todo{},
		ListByFilter: Lists{
			All:       List{IDs: []string{}},
			Active:    List{IDs: []string{}},
			Completed: List{IDs: []string{}},
		},
	}
}
