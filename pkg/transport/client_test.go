package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

type site struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&Config{BaseURL: server.URL + "/api"}, opts...)
	require.NoError(t, err)
	return client, server
}

func TestNew(t *testing.T) {
	client, err := New(&Config{BaseURL: "https://sen.example.com/api/"})
	require.NoError(t, err)
	assert.Equal(t, "https://sen.example.com/api", client.BaseURL())
	assert.Equal(t, 15*time.Second, client.config.Timeout)
	assert.Equal(t, 0, client.config.MaxRetries)

	_, err = New(nil)
	require.Error(t, err, "default config has no base URL")
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestClient_Get(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/heritage-sites", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Empty(t, r.Header.Get("Authorization"), "anonymous request")

		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("_page"))
		assert.Equal(t, "10", q.Get("_limit"))
		assert.Equal(t, "1,2,3", q.Get("id_in"))
		assert.Equal(t, "true", q.Get("isOpen"))
		assert.Equal(t, "Huế", q.Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success": true, "count": 1, "data": [{"id": 1, "name": "Imperial City"}]}`)
	})

	var env resource.PagedEnvelope[site]
	err := client.Get(context.Background(), "/heritage-sites", resource.NormalizedQuery{
		"_page":  2,
		"_limit": 10,
		"id_in":  []int{1, 2, 3},
		"isOpen": true,
		"q":      "Huế",
	}, &env)

	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, []site{{ID: 1, Name: "Imperial City"}}, env.Data)
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Temple of Literature", body["name"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success": true, "data": {"id": 9, "name": "Temple of Literature"}}`)
	})

	var env resource.Envelope[site]
	err := client.Post(context.Background(), "heritage-sites", site{Name: "Temple of Literature"}, &env)

	require.NoError(t, err)
	assert.Equal(t, 9, env.Data.ID)
}

func TestClient_Methods(t *testing.T) {
	var methods []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = io.WriteString(w, `{"success": true, "data": {"id": 3}}`)
	})
	ctx := context.Background()

	var env resource.Envelope[site]
	require.NoError(t, client.Put(ctx, "/artifacts/3", site{ID: 3}, &env))
	require.NoError(t, client.Patch(ctx, "/artifacts/3", map[string]any{"name": "x"}, &env))
	require.NoError(t, client.Delete(ctx, "/artifacts/3"))

	assert.Equal(t, []string{
		"PUT /api/artifacts/3",
		"PATCH /api/artifacts/3",
		"DELETE /api/artifacts/3",
	}, methods)
}

func TestClient_BearerToken(t *testing.T) {
	store := NewMemoryTokenStore("abc123")
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success": true, "data": {"id": 1}}`)
	}, WithTokenStore(store))

	var env resource.Envelope[site]
	require.NoError(t, client.Get(context.Background(), "/addresses/1", nil, &env))
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store, err := NewFileTokenStore(fsys, "/home/sen/.sen/token")
	require.NoError(t, err)
	require.NoError(t, store.Save("expired"))

	var hookCalls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success": false, "message": "Token expired"}`)
	},
		WithTokenStore(store),
		WithUnauthorizedHook(func(context.Context) { hookCalls.Add(1) }),
	)

	err = client.Get(context.Background(), "/addresses", nil, nil)

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Token expired", err.(*resource.TransportError).Message)
	assert.Equal(t, int32(1), hookCalls.Load())

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	exists, err := afero.Exists(fsys, store.Path())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedMsg string
	}{
		{"message field", http.StatusNotFound, `{"success": false, "message": "Heritage site not found"}`, "Heritage site not found"},
		{"error field", http.StatusBadRequest, `{"error": "bad filter"}`, "bad filter"},
		{"message preferred", http.StatusBadRequest, `{"message": "first", "error": "second"}`, "first"},
		{"plain text", http.StatusBadGateway, "upstream unavailable\n", "upstream unavailable"},
		{"json without message", http.StatusForbidden, `{"success": false}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := client.Get(context.Background(), "/heritage-sites/1", nil, nil)

			var transportErr *resource.TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, tt.status, transportErr.StatusCode)
			assert.Equal(t, tt.expectedMsg, transportErr.Message)
			assert.Equal(t, http.MethodGet, transportErr.Method)
			assert.Equal(t, "/heritage-sites/1", transportErr.Path)
			assert.Equal(t, resource.KindTransport, resource.KindOf(err))
		})
	}
}

func TestClient_NotFoundIsDetectable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	err := client.Get(context.Background(), "/artifacts/404", nil, nil)

	assert.True(t, resource.IsNotFound(err))
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.Get(context.Background(), "/heritage-sites", nil, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"success": true, "data": {"id": 1}}`)
	}))
	defer server.Close()

	client, err := New(&Config{
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	var env resource.Envelope[site]
	require.NoError(t, client.Get(context.Background(), "/heritage-sites/1", nil, &env))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 1, env.Data.ID)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"success": false, "message": "Validation failed"}`)
	}))
	defer server.Close()

	client, err := New(&Config{BaseURL: server.URL, MaxRetries: 3, RetryDelay: time.Millisecond})
	require.NoError(t, err)

	err = client.Post(context.Background(), "/addresses", map[string]any{}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	})

	var env resource.Envelope[site]
	err := client.Get(context.Background(), "/heritage-sites/1", nil, &env)

	var transportErr *resource.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "failed to decode response", transportErr.Message)
	assert.Equal(t, http.StatusOK, transportErr.StatusCode)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(&Config{BaseURL: url})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/heritage-sites", nil, nil)

	var transportErr *resource.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 0, transportErr.StatusCode)
	assert.Error(t, transportErr.Err)
}

func TestClient_CancelledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": true}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Get(ctx, "/heritage-sites", nil, nil)

	assert.Equal(t, resource.KindTransport, resource.KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_SetBaseURL(t *testing.T) {
	var hits atomic.Int32
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v2/artifacts", r.URL.Path)
		_, _ = io.WriteString(w, `{"success": true, "count": 0, "data": []}`)
	}))
	defer other.Close()

	client, err := New(&Config{BaseURL: "https://sen.example.com/api"})
	require.NoError(t, err)

	require.Error(t, client.SetBaseURL("ftp://example.com"))
	assert.Equal(t, "https://sen.example.com/api", client.BaseURL())

	require.NoError(t, client.SetBaseURL(other.URL+"/v2/"))
	assert.Equal(t, other.URL+"/v2", client.BaseURL())

	require.NoError(t, client.Get(context.Background(), "artifacts", nil, nil))
	assert.Equal(t, int32(1), hits.Load())
}

func TestFormatParam(t *testing.T) {
	n := 7
	var nilPtr *int

	tests := []struct {
		name     string
		input    any
		expected string
		ok       bool
	}{
		{"nil", nil, "", false},
		{"string", "temple", "temple", true},
		{"int", 42, "42", true},
		{"float", 4.5, "4.5", true},
		{"large float", float64(1500000), "1500000", true},
		{"float32", float32(0.25), "0.25", true},
		{"float slice", []any{float64(1000000), float64(2)}, "1000000,2", true},
		{"bool", false, "false", true},
		{"pointer", &n, "7", true},
		{"nil pointer", nilPtr, "", false},
		{"string slice", []string{"a", "b"}, "a,b", true},
		{"int slice", []int{1, 2, 3}, "1,2,3", true},
		{"duration stringer", 2 * time.Second, "2s", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := formatParam(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
