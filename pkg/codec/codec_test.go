package codec_test

import (
	"testing"

	"github.com/aretw0/tendril/pkg/codec"
	"github.com/aretw0/tendril/pkg/counter"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/posts"
	"github.com/aretw0/tendril/pkg/todos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *codec.Registry {
	return codec.NewRegistry(counter.Payloads(), todos.Payloads(), posts.Payloads())
}

func TestDecode_TypedPayload(t *testing.T) {
	r := newRegistry()

	a, err := r.Decode([]byte(`{"type":"posts/reactionAdded","payload":{"postId":"p1","reaction":"heart"}}`))
	require.NoError(t, err)
	assert.Equal(t, posts.ReactionAdd{PostID: "p1", Reaction: "heart"}, a.Payload)

	a, err = r.Decode([]byte(`{"type":"FETCH_TODOS_REQUEST","payload":{"filter":"active"}}`))
	require.NoError(t, err)
	assert.Equal(t, todos.FetchRequest{Filter: domain.FilterActive}, a.Payload)
}

func TestDecode_NestedTypes(t *testing.T) {
	r := newRegistry()

	a, err := r.Decode([]byte(`{"type":"posts/postAdded","payload":{
		"id":"p1","title":"T","content":"C","user":"0","date":"2024-01-01T00:00:00Z",
		"reactions":{"heart":2}}}`))
	require.NoError(t, err)

	post, ok := a.Payload.(domain.Post)
	require.True(t, ok)
	assert.Equal(t, 2, post.Reactions[domain.ReactionHeart])

	a, err = r.Decode([]byte(`{"type":"ADD_TODO_SUCCESS","payload":{
		"entities":{"7":{"id":"7","text":"x","completed":true}},"result":["7"]}}`))
	require.NoError(t, err)
	assert.Equal(t, todos.NormalizeOne(domain.Todo{ID: "7", Text: "x", Completed: true}), a.Payload)
}

func TestDecode_NoPayload(t *testing.T) {
	a, err := newRegistry().Decode([]byte(`{"type":"INCREMENT"}`))
	require.NoError(t, err)
	assert.Equal(t, counter.Increment(), a)
}

func TestDecode_UnregisteredKeepsRaw(t *testing.T) {
	a, err := newRegistry().Decode([]byte(`{"type":"custom/thing","payload":{"n":1}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 1.0}, a.Payload)
}

func TestDecode_Errors(t *testing.T) {
	r := newRegistry()

	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"missing type", `{"payload":{}}`},
		{"empty type", `{"type":""}`},
		{"wrong payload shape", `{"type":"posts/postRemoved","payload":"p1"}`},
		{"unknown field", `{"type":"posts/postRemoved","payload":{"id":"p1","extra":true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Decode([]byte(tt.input))
			assert.ErrorIs(t, err, domain.ErrMalformedAction)
		})
	}
}

func TestDecode_ErrorField(t *testing.T) {
	r := newRegistry()

	a, err := r.Decode([]byte(`{"type":"posts/fetchPosts/rejected","error":{"message":"down"}}`))
	require.NoError(t, err)
	assert.Equal(t, "down", a.ErrorMessage())

	a, err = r.Decode([]byte(`{"type":"posts/fetchPosts/rejected","error":"plain"}`))
	require.NoError(t, err)
	assert.Equal(t, "plain", a.ErrorMessage())
}

func TestTypes(t *testing.T) {
	r := codec.NewRegistry(counter.Payloads())
	assert.Equal(t, []string{"DECREMENT", "INCREMENT"}, r.Types())
}
