package todos

import (
	"maps"
	"slices"

	"github.com/aretw0/tendril/pkg/domain"
)

// Reduce computes the next todos state. An absent state yields Initial().
func Reduce(state *State, action domain.Action) State {
	if state == nil {
		return Initial()
	}
	return State{
		ByID:         reduceByID(state.ByID, action),
		ListByFilter: reduceLists(state.ListByFilter, action),
	}
}

// reduceByID merges the entities of every successful response.
func reduceByID(byID map[string]domain.Todo, action domain.Action) map[string]domain.Todo {
	var response Normalized
	switch action.Type {
	case ActionFetchSuccess:
		p, ok := action.Payload.(FetchSuccess)
		if !ok {
			return byID
		}
		response = p.Response
	case ActionAddSuccess, ActionToggleSuccess:
		p, ok := action.Payload.(Normalized)
		if !ok {
			return byID
		}
		response = p
	default:
		return byID
	}

	next := maps.Clone(byID)
	if next == nil {
		next = make(map[string]domain.Todo, len(response.Entities))
	}
	maps.Copy(next, response.Entities)
	return next
}

func reduceLists(lists Lists, action domain.Action) Lists {
	for _, f := range domain.Filters {
		list, _ := lists.Get(f)
		lists = lists.with(f, reduceList(f, list, action))
	}
	return lists
}

// reduceList updates the list owned by filter. Fetch actions for other
// filters leave it untouched.
func reduceList(filter domain.Filter, list List, action domain.Action) List {
	switch action.Type {
	case ActionFetchRequest:
		p, ok := action.Payload.(FetchRequest)
		if !ok || p.Filter != filter {
			return list
		}
		list.IsFetching = true
		list.ErrorMessage = ""
		return list

	case ActionFetchSuccess:
		p, ok := action.Payload.(FetchSuccess)
		if !ok || p.Filter != filter {
			return list
		}
		list.IDs = slices.Clone(p.Response.Result)
		if list.IDs == nil {
			list.IDs = []string{}
		}
		list.IsFetching = false
		list.ErrorMessage = ""
		return list

	case ActionFetchFailure:
		p, ok := action.Payload.(FetchFailure)
		if !ok || p.Filter != filter {
			return list
		}
		list.IsFetching = false
		list.ErrorMessage = p.Message
		return list

	case ActionAddSuccess:
		p, ok := action.Payload.(Normalized)
		if !ok || filter == domain.FilterCompleted {
			return list
		}
		ids := slices.Clone(list.IDs)
		for _, id := range p.Result {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		list.IDs = ids
		return list

	case ActionToggleSuccess:
		p, ok := action.Payload.(Normalized)
		if !ok {
			return list
		}
		return handleToggle(filter, list, p)

	default:
		return list
	}
}

// handleToggle drops a toggled todo from the list it no longer belongs to.
func handleToggle(filter domain.Filter, list List, response Normalized) List {
	for _, id := range response.Result {
		todo, ok := response.Entities[id]
		if !ok {
			continue
		}
		shouldRemove := (todo.Completed && filter == domain.FilterActive) ||
			(!todo.Completed && filter == domain.FilterCompleted)
		if !shouldRemove || !slices.Contains(list.IDs, id) {
			continue
		}
		list.IDs = slices.DeleteFunc(slices.Clone(list.IDs), func(cur string) bool {
			return cur == id
		})
	}
	return list
}
