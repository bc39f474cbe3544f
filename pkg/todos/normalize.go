package todos

import "github.com/aretw0/tendril/pkg/domain"

// Normalized is a server response flattened into an entity table and the
// ordered ids of the result.
type Normalized struct {
	Entities map[string]domain.Todo `json:"entities"`
	Result   []string               `json:"result"`
}

// Normalize flattens a list of todos.
func Normalize(list []domain.Todo) Normalized {
	n := Normalized{
		Entities: make(map[string]domain.Todo, len(list)),
		Result:   make([]string, 0, len(list)),
	}
	for _, t := range list {
		n.Entities[t.ID] = t
		n.Result = append(n.Result, t.ID)
	}
	return n
}

// NormalizeOne flattens a single todo; Result has exactly one id.
func NormalizeOne(t domain.Todo) Normalized {
	return Normalize([]domain.Todo{t})
}
