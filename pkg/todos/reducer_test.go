package todos_test

import (
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/todos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hey   = domain.Todo{ID: "1", Text: "hey", Completed: true}
	ho    = domain.Todo{ID: "2", Text: "ho"}
	letGo = domain.Todo{ID: "3", Text: "let's go"}
)

func reduceAll(actions ...domain.Action) todos.State {
	state := todos.Reduce(nil, domain.Action{Type: domain.ActionInit})
	for _, a := range actions {
		state = todos.Reduce(&state, a)
	}
	return state
}

func TestReduce_Initial(t *testing.T) {
	state := todos.Reduce(nil, todos.FetchRequested(domain.FilterAll))
	assert.Equal(t, todos.Initial(), state, "absent state ignores the action")
	assert.Empty(t, todos.GetVisibleTodos(state, domain.FilterAll))
}

func TestReduce_UnknownActionIsIdentity(t *testing.T) {
	state := reduceAll(todos.FetchSucceeded(domain.FilterAll, []domain.Todo{hey, ho}))
	next := todos.Reduce(&state, domain.Action{Type: "WHATEVER"})
	assert.Equal(t, state, next)
}

func TestReduce_MismatchedPayloadIsIdentity(t *testing.T) {
	state := reduceAll()
	next := todos.Reduce(&state, domain.Action{Type: todos.ActionFetchSuccess, Payload: "nope"})
	assert.Equal(t, state, next)
}

func TestReduce_FetchLifecycle(t *testing.T) {
	state := reduceAll(todos.FetchRequested(domain.FilterActive))
	assert.True(t, todos.GetIsFetching(state, domain.FilterActive))
	assert.False(t, todos.GetIsFetching(state, domain.FilterAll), "other filters are untouched")

	state = todos.Reduce(&state, todos.FetchSucceeded(domain.FilterActive, []domain.Todo{ho, letGo}))
	assert.False(t, todos.GetIsFetching(state, domain.FilterActive))
	assert.Equal(t, []domain.Todo{ho, letGo}, todos.GetVisibleTodos(state, domain.FilterActive))
	assert.Empty(t, todos.GetVisibleTodos(state, domain.FilterAll))
	assert.Len(t, state.ByID, 2)
}

func TestReduce_FetchFailure(t *testing.T) {
	state := reduceAll(
		todos.FetchRequested(domain.FilterAll),
		todos.FetchFailed(domain.FilterAll, "Boom!"),
	)
	assert.False(t, todos.GetIsFetching(state, domain.FilterAll))
	assert.Equal(t, "Boom!", todos.GetErrorMessage(state, domain.FilterAll))

	// A new request clears the message.
	state = todos.Reduce(&state, todos.FetchRequested(domain.FilterAll))
	assert.Equal(t, "", todos.GetErrorMessage(state, domain.FilterAll))
}

func TestReduce_FetchFailureFallbackMessage(t *testing.T) {
	state := reduceAll(todos.FetchFailed(domain.FilterAll, ""))
	assert.Equal(t, domain.DefaultErrorMessage, todos.GetErrorMessage(state, domain.FilterAll))
}

func TestReduce_AddSuccess(t *testing.T) {
	state := reduceAll(
		todos.FetchSucceeded(domain.FilterAll, []domain.Todo{hey}),
		todos.FetchSucceeded(domain.FilterCompleted, []domain.Todo{hey}),
		todos.AddSucceeded(ho),
	)

	assert.Equal(t, []domain.Todo{hey, ho}, todos.GetVisibleTodos(state, domain.FilterAll))
	assert.Equal(t, []domain.Todo{ho}, todos.GetVisibleTodos(state, domain.FilterActive))
	assert.Equal(t, []domain.Todo{hey}, todos.GetVisibleTodos(state, domain.FilterCompleted))

	// Ids stay unique.
	again := todos.Reduce(&state, todos.AddSucceeded(ho))
	assert.Equal(t, []string{"1", "2"}, again.ListByFilter.All.IDs)
}

func TestReduce_ToggleSuccess(t *testing.T) {
	state := reduceAll(
		todos.FetchSucceeded(domain.FilterAll, []domain.Todo{hey, ho}),
		todos.FetchSucceeded(domain.FilterActive, []domain.Todo{ho}),
		todos.FetchSucceeded(domain.FilterCompleted, []domain.Todo{hey}),
	)

	doneHo := ho
	doneHo.Completed = true
	state = todos.Reduce(&state, todos.ToggleSucceeded(doneHo))

	assert.Empty(t, todos.GetVisibleTodos(state, domain.FilterActive))
	assert.Equal(t, []domain.Todo{hey, doneHo}, todos.GetVisibleTodos(state, domain.FilterAll))
	assert.True(t, state.ByID["2"].Completed)

	openHey := hey
	openHey.Completed = false
	state = todos.Reduce(&state, todos.ToggleSucceeded(openHey))
	assert.Empty(t, todos.GetVisibleTodos(state, domain.FilterCompleted))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	state := reduceAll(todos.FetchSucceeded(domain.FilterAll, []domain.Todo{hey, ho}))
	idsBefore := append([]string(nil), state.ListByFilter.All.IDs...)
	byIDBefore := len(state.ByID)

	_ = todos.Reduce(&state, todos.AddSucceeded(letGo))
	doneHo := ho
	doneHo.Completed = true
	_ = todos.Reduce(&state, todos.ToggleSucceeded(doneHo))

	assert.Equal(t, idsBefore, state.ListByFilter.All.IDs)
	assert.Len(t, state.ByID, byIDBefore)
	assert.False(t, state.ByID["2"].Completed)
}

func TestReduce_Deterministic(t *testing.T) {
	actions := []domain.Action{
		todos.FetchRequested(domain.FilterAll),
		todos.FetchSucceeded(domain.FilterAll, []domain.Todo{hey, ho}),
		todos.AddSucceeded(letGo),
		todos.ToggleSucceeded(domain.Todo{ID: "2", Text: "ho", Completed: true}),
	}
	require.Equal(t, reduceAll(actions...), reduceAll(actions...))
}

func TestSelectors_UnknownFilter(t *testing.T) {
	state := reduceAll(todos.FetchSucceeded(domain.FilterAll, []domain.Todo{hey}))
	assert.Empty(t, todos.GetVisibleTodos(state, domain.Filter("someday")))
	assert.False(t, todos.GetIsFetching(state, domain.Filter("someday")))
	assert.Equal(t, "", todos.GetErrorMessage(state, domain.Filter("someday")))
}

func TestNormalize(t *testing.T) {
	n := todos.Normalize([]domain.Todo{hey, ho})
	assert.Equal(t, []string{"1", "2"}, n.Result)
	assert.Equal(t, ho, n.Entities["2"])

	one := todos.NormalizeOne(letGo)
	assert.Equal(t, []string{"3"}, one.Result)
}
