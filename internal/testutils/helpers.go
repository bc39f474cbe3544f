package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/tendril/pkg/ports"
	"github.com/stretchr/testify/require"
)

// Call records a request made through FakeClient.
type Call struct {
	Method string
	Path   string
	Body   any
}

// FakeClient implements ports.Client with per-method hooks.
// Unset hooks fail with an error. Safe for concurrent use.
type FakeClient struct {
	GetFunc   func(ctx context.Context, path string) (*ports.Response, error)
	PostFunc  func(ctx context.Context, path string, body any) (*ports.Response, error)
	PatchFunc func(ctx context.Context, path string, body any) (*ports.Response, error)

	mu    sync.Mutex
	calls []Call
}

func (c *FakeClient) record(method, path string, body any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Method: method, Path: path, Body: body})
}

// Calls returns a copy of the recorded requests.
func (c *FakeClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

func (c *FakeClient) Get(ctx context.Context, path string) (*ports.Response, error) {
	c.record("GET", path, nil)
	if c.GetFunc == nil {
		return nil, fmt.Errorf("unexpected GET %s", path)
	}
	return c.GetFunc(ctx, path)
}

func (c *FakeClient) Post(ctx context.Context, path string, body any) (*ports.Response, error) {
	c.record("POST", path, body)
	if c.PostFunc == nil {
		return nil, fmt.Errorf("unexpected POST %s", path)
	}
	return c.PostFunc(ctx, path, body)
}

func (c *FakeClient) Patch(ctx context.Context, path string, body any) (*ports.Response, error) {
	c.record("PATCH", path, body)
	if c.PatchFunc == nil {
		return nil, fmt.Errorf("unexpected PATCH %s", path)
	}
	return c.PatchFunc(ctx, path, body)
}

// JSONResponse builds a 200 response carrying v.
// It fails the test immediately on error.
func JSONResponse(t *testing.T, v any) *ports.Response {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal fake response")

	return &ports.Response{Status: 200, Data: data}
}
