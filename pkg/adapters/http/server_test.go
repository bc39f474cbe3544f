package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/testutils"
	tendrilhttp "github.com/aretw0/tendril/pkg/adapters/http"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_DispatchAndState(t *testing.T) {
	app := tendril.New(nil)
	srv := tendrilhttp.New(app)
	defer srv.Close()

	w := do(t, srv, http.MethodPost, "/dispatch", `{"type":"INCREMENT"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"counter":1`)

	w = do(t, srv, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st tendril.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 1, st.Counter)
}

func TestServer_DispatchMalformed(t *testing.T) {
	srv := tendrilhttp.New(tendril.New(nil))
	defer srv.Close()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing type", `{"payload":1}`},
		{"bad payload", `{"type":"posts/postRemoved","payload":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/dispatch", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestServer_ClosedStore(t *testing.T) {
	app := tendril.New(nil)
	srv := tendrilhttp.New(app)
	defer srv.Close()
	app.Close()

	w := do(t, srv, http.MethodPost, "/dispatch", `{"type":"INCREMENT"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_Todos(t *testing.T) {
	client := &testutils.FakeClient{
		GetFunc: func(ctx context.Context, path string) (*ports.Response, error) {
			return testutils.JSONResponse(t, []domain.Todo{{ID: "1", Text: "a"}}), nil
		},
		PostFunc: func(ctx context.Context, path string, body any) (*ports.Response, error) {
			return testutils.JSONResponse(t, domain.Todo{ID: "2", Text: "b"}), nil
		},
		PatchFunc: func(ctx context.Context, path string, body any) (*ports.Response, error) {
			return nil, domain.ErrNotFound
		},
	}
	srv := tendrilhttp.New(tendril.New(client))
	defer srv.Close()

	w := do(t, srv, http.MethodPost, "/todos/fetch?filter=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"text":"a"`)

	w = do(t, srv, http.MethodGet, "/todos?filter=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"filter":"active"`)

	w = do(t, srv, http.MethodGet, "/todos?filter=someday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/todos", `{"text":"b"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"text":"b"`)

	w = do(t, srv, http.MethodPost, "/todos", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Toggle failures are recorded as actions, not HTTP errors.
	w = do(t, srv, http.MethodPost, "/todos/9/toggle", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Posts(t *testing.T) {
	srv := tendrilhttp.New(tendril.New(nil))
	defer srv.Close()

	w := do(t, srv, http.MethodPost, "/posts", `{"title":"T","content":"C","user":"0"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var st struct {
		Posts []domain.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	require.Len(t, st.Posts, 1)
	id := st.Posts[0].ID

	w = do(t, srv, http.MethodPatch, "/posts/"+id, `{"title":"T2","content":"C2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"T2"`)

	w = do(t, srv, http.MethodPost, "/posts/"+id+"/reactions", `{"reaction":"rocket"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rocket":1`)

	w = do(t, srv, http.MethodPost, "/posts/missing/reactions", `{"reaction":"rocket"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/posts/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodDelete, "/posts/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, srv, http.MethodDelete, "/posts/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code, "removal is idempotent")

	w = do(t, srv, http.MethodPost, "/posts", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_UpdatePostPartial(t *testing.T) {
	srv := tendrilhttp.New(tendril.New(nil))
	defer srv.Close()

	w := do(t, srv, http.MethodPost, "/posts", `{"title":"T","content":"C","user":"0"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := tendril.AllPosts(srv.App.GetState())[0].ID

	w = do(t, srv, http.MethodPatch, "/posts/"+id, `{"title":"T2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	post, _ := tendril.PostByID(srv.App.GetState(), id)
	assert.Equal(t, "T2", post.Title)
	assert.Equal(t, "C", post.Content, "omitted content is kept")

	w = do(t, srv, http.MethodPatch, "/posts/"+id, `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	post, _ = tendril.PostByID(srv.App.GetState(), id)
	assert.Equal(t, "C", post.Content)

	w = do(t, srv, http.MethodPatch, "/posts/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_UsersInfoHealth(t *testing.T) {
	srv := tendrilhttp.New(tendril.New(nil))
	defer srv.Close()

	w := do(t, srv, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tianna Jenkins")

	w = do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/info", "")
	assert.Contains(t, w.Body.String(), tendril.Version)
	assert.Contains(t, w.Body.String(), "INCREMENT")

	w = do(t, srv, http.MethodOptions, "/state", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := tendrilhttp.New(tendril.New(nil, tendril.WithRegisterer(reg)), tendrilhttp.WithGatherer(reg))
	defer srv.Close()

	do(t, srv, http.MethodPost, "/dispatch", `{"type":"INCREMENT"}`)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tendril_actions_dispatched_total{type="INCREMENT"} 1`)
}

func TestServer_Events(t *testing.T) {
	app := tendril.New(nil)
	handler := tendrilhttp.New(app)
	defer handler.Close()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?watch=counter", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	require.Eventually(t, func() bool { return handler.Streams.Len() == 1 }, time.Second, 10*time.Millisecond)

	// Posts changes are filtered out by watch=counter.
	_, err = app.Dispatch(ctx, domain.Action{Type: "posts/postRemoved"})
	require.NoError(t, err)
	_, err = app.Dispatch(ctx, domain.Action{Type: "users/userAdded", Payload: domain.User{ID: "9", Name: "x"}})
	require.NoError(t, err)
	_, err = app.Dispatch(ctx, domain.Action{Type: "INCREMENT"})
	require.NoError(t, err)

	var data string
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "data: {") {
			data = strings.TrimPrefix(lines.Text(), "data: ")
			break
		}
	}
	require.NotEmpty(t, data)

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, []string{"counter"}, diff.Keys())
	assert.Equal(t, 1.0, diff.Changed["counter"])
}
