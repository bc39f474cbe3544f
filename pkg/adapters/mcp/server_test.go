package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/testutils"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestDispatchAndGetState(t *testing.T) {
	s := NewServer(tendril.New(nil))
	ctx := context.Background()

	res, err := s.handleDispatch(ctx, callRequest("dispatch", map[string]any{"action": `{"type":"INCREMENT"}`}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"counter":1`)

	res, err = s.handleGetState(ctx, callRequest("get_state", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"counter":1`)
}

func TestDispatch_Rejected(t *testing.T) {
	s := NewServer(tendril.New(nil))
	ctx := context.Background()

	res, err := s.handleDispatch(ctx, callRequest("dispatch", map[string]any{"action": `{"payload":1}`}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleDispatch(ctx, callRequest("dispatch", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestTodoTools(t *testing.T) {
	client := &testutils.FakeClient{
		GetFunc: func(ctx context.Context, path string) (*ports.Response, error) {
			return testutils.JSONResponse(t, []domain.Todo{{ID: "1", Text: "a"}}), nil
		},
	}
	s := NewServer(tendril.New(client))
	ctx := context.Background()

	list, err := s.handleVisibleTodos(ctx, callRequest("visible_todos", nil), map[string]any{"filter": "active"})
	require.NoError(t, err)
	assert.Empty(t, list.Todos)

	list, err = s.handleFetchTodos(ctx, callRequest("fetch_todos", nil), map[string]any{"filter": "active"})
	require.NoError(t, err)
	assert.Equal(t, domain.FilterActive, list.Filter)
	assert.Equal(t, []domain.Todo{{ID: "1", Text: "a"}}, list.Todos)

	_, err = s.handleVisibleTodos(ctx, callRequest("visible_todos", nil), map[string]any{"filter": "someday"})
	assert.ErrorIs(t, err, domain.ErrUnknownFilter)
}

func TestStateResource(t *testing.T) {
	s := NewServer(tendril.New(nil))

	contents, err := s.readState(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, stateURI, text.URI)
	assert.Contains(t, text.Text, "Madison Poem")
}
