package restclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/tendril/pkg/adapters/restclient"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("filter"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","text":"a","completed":false}]`))
	}))
	defer srv.Close()

	c := restclient.New(srv.URL + "/")
	resp, err := c.Get(context.Background(), "/todos?filter=active")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	var list []domain.Todo
	require.NoError(t, resp.Decode(&list))
	assert.Equal(t, []domain.Todo{{ID: "1", Text: "a"}}, list)
}

func TestClient_PostAndPatchBodies(t *testing.T) {
	var gotBodies []string
	var gotTypes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBodies = append(gotBodies, string(data))
		gotTypes = append(gotTypes, r.Header.Get("Content-Type"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := restclient.New(srv.URL)
	ctx := context.Background()
	_, err := c.Post(ctx, "/todos", map[string]string{"text": "x"})
	require.NoError(t, err)
	_, err = c.Patch(ctx, "/todos/1/toggle", nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"text":"x"}`, gotBodies[0])
	assert.Equal(t, "application/json", gotTypes[0])
	assert.Equal(t, "", gotBodies[1])
	assert.Equal(t, "", gotTypes[1])
}

func TestClient_StatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Boom!"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := restclient.New(srv.URL)
	ctx := context.Background()

	_, err := c.Get(ctx, "/boom")
	require.Error(t, err)
	assert.Equal(t, "Boom!", err.Error())

	_, err = c.Get(ctx, "/missing")
	var se *restclient.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := restclient.New(srv.URL, restclient.WithTimeout(20*time.Millisecond))
	_, err := c.Get(context.Background(), "/slow")
	assert.Error(t, err)
}
