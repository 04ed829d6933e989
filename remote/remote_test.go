// ABOUTME: Tests for the remote table-store client against a stub HTTP server
package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	body   string
	header http.Header
}

func newStubServer(t *testing.T, status int, reply string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
			header: r.Header.Clone(),
		})
		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestInsert(t *testing.T) {
	srv, captured := newStubServer(t, http.StatusCreated, "")
	c := NewClient(srv.URL, "secret", nil)

	err := c.Insert("companies", map[string]string{"name": "Tech Solutions"})
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/rest/v1/companies", got.path)
	assert.JSONEq(t, `{"name":"Tech Solutions"}`, got.body)
	assert.Equal(t, "secret", got.header.Get("apikey"))
	assert.Equal(t, "Bearer secret", got.header.Get("Authorization"))
	assert.NotEmpty(t, got.header.Get("X-Request-Id"))
}

func TestRequestIDsAreUnique(t *testing.T) {
	srv, captured := newStubServer(t, http.StatusCreated, "")
	c := NewClient(srv.URL, "", nil)

	require.NoError(t, c.Insert("tasks", map[string]string{}))
	require.NoError(t, c.Insert("tasks", map[string]string{}))

	require.Len(t, *captured, 2)
	first := (*captured)[0].header.Get("X-Request-Id")
	second := (*captured)[1].header.Get("X-Request-Id")
	assert.NotEqual(t, first, second)
	assert.Len(t, first, 26, "ULID string form")
}

func TestUpdateTargetsRowByID(t *testing.T) {
	srv, captured := newStubServer(t, http.StatusNoContent, "")
	c := NewClient(srv.URL, "", nil)
	id := uuid.New()

	err := c.Update("deals", map[string]interface{}{"stage": "Pozyskany"}, id)
	require.NoError(t, err)

	got := (*captured)[0]
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "id=eq."+id.String(), got.query)
	assert.JSONEq(t, `{"stage":"Pozyskany"}`, got.body)
}

func TestDelete(t *testing.T) {
	srv, captured := newStubServer(t, http.StatusNoContent, "")
	c := NewClient(srv.URL, "", nil)
	id := uuid.New()

	require.NoError(t, c.Delete("custom_fields", id))
	got := (*captured)[0]
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "id=eq."+id.String(), got.query)
}

func TestServerErrorSurfaces(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusInternalServerError, "")
	c := NewClient(srv.URL, "", nil)

	err := c.Insert("companies", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSelectAll(t *testing.T) {
	rows := []map[string]string{{"name": "A"}, {"name": "B"}}
	reply, err := json.Marshal(rows)
	require.NoError(t, err)

	srv, captured := newStubServer(t, http.StatusOK, string(reply))
	c := NewClient(srv.URL, "", nil)

	var dest []map[string]string
	require.NoError(t, c.SelectAll(context.Background(), "companies", &dest))
	assert.Equal(t, rows, dest)
	assert.Equal(t, "select=*", (*captured)[0].query)
}
