package resource

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItemService(tr Transport, opts ...Option) *Service[item, int] {
	return NewService[item, int](tr, "/items", opts...)
}

func TestNewService_Endpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		expected string
	}{
		{"/items", "/items"},
		{"items", "/items"},
		{"/items/", "/items"},
		{"/heritage-sites", "/heritage-sites"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			svc := NewService[item, int](newFakeTransport(), tt.endpoint)
			assert.Equal(t, tt.expected, svc.Endpoint())
		})
	}
}

func TestService_Path(t *testing.T) {
	svc := newItemService(newFakeTransport())

	assert.Equal(t, "/items", svc.Path())
	assert.Equal(t, "/items/7/default", svc.Path("7", "default"))
	assert.Equal(t, "/items/a%2Fb", svc.Path("a/b"))
	assert.Equal(t, "/items/search", svc.Path("", "search"))
}

func TestService_GetByID(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items/7", `{"success": true, "data": {"id": 7, "name": "Hue"}}`)
	svc := newItemService(tr)

	got, err := svc.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, &item{ID: 7, Name: "Hue"}, got)
	assert.Empty(t, tr.lastCall().Params)
}

func TestService_GetByID_StringID(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items/abc-1", `{"success": true, "data": {"id": 1}}`)
	svc := NewService[item, string](tr, "/items")

	got, err := svc.GetByID(context.Background(), "abc-1")

	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
}

func TestService_GetByID_Failures(t *testing.T) {
	netErr := &TransportError{Method: "GET", Path: "/items/3", Err: errors.New("connection refused")}

	tr := newFakeTransport().
		on("GET", "/items/1", `{"success": false, "message": "Access denied"}`).
		on("GET", "/items/2", `{"success": true}`).
		fail("GET", "/items/3", netErr)
	svc := newItemService(tr)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Access denied", apiErr.Message)
	assert.Equal(t, "GetByID", apiErr.Op)

	_, err = svc.GetByID(ctx, 2)
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = svc.GetByID(ctx, 3)
	assert.Same(t, netErr, err)
}

func TestService_GetWithRelations(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items/5", `{"success": true, "data": {"id": 5}}`)
	svc := newItemService(tr)

	_, err := svc.GetWithRelations(context.Background(), 5, Relations{
		Embed:  []string{"x", "y"},
		Expand: []string{"z"},
	})
	require.NoError(t, err)

	assert.Equal(t, NormalizedQuery{"_embed": "x,y", "_expand": "z"}, tr.lastCall().Params)
}

func TestService_GetWithRelations_EmptyLists(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items/5", `{"success": true, "data": {"id": 5}}`)
	svc := newItemService(tr)

	_, err := svc.GetWithRelations(context.Background(), 5, Relations{})
	require.NoError(t, err)

	params := tr.lastCall().Params
	assert.NotContains(t, params, ParamEmbed)
	assert.NotContains(t, params, ParamExpand)
}

func TestService_GetAll(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items", `{
		"success": true,
		"count": 2,
		"data": [{"id": 1}, {"id": 2}],
		"pagination": {"page": 2, "limit": 2, "total": 9, "totalPages": 5, "hasNext": true, "hasPrev": true}
	}`)
	svc := newItemService(tr)

	env, err := svc.GetAll(context.Background(), Query{"page": 2, "limit": 2, "category": nil})

	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Count)
	assert.Equal(t, []item{{ID: 1}, {ID: 2}}, env.Data)
	assert.Equal(t, 9, env.Total())
	assert.Equal(t, NormalizedQuery{"_page": 2, "_limit": 2}, tr.lastCall().Params)
}

func TestService_GetAll_UnsuccessfulEnvelopeIsReturnedAsIs(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items", `{"success": false, "count": 0, "data": []}`)
	svc := newItemService(tr)

	env, err := svc.GetAll(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, env.Success)
}

func TestService_Search(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items/search", `{"success": true, "count": 0, "data": []}`)
	svc := newItemService(tr)

	_, err := svc.Search(context.Background(), "pho", Query{"q": "ignored", "limit": 5})
	require.NoError(t, err)

	c := tr.lastCall()
	assert.Equal(t, "/items/search", c.Path)
	assert.Equal(t, NormalizedQuery{"q": "pho", "_limit": 5}, c.Params)
}

func TestService_Search_CustomPath(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items", `{"success": true, "count": 0, "data": []}`)
	svc := newItemService(tr, WithSearchPath(""))

	_, err := svc.Search(context.Background(), "pho", nil)
	require.NoError(t, err)

	assert.Equal(t, "/items", tr.lastCall().Path)
}

func TestService_Filter(t *testing.T) {
	tr := newFakeTransport().on("GET", "/items", `{"success": true, "count": 0, "data": []}`)
	svc := newItemService(tr)

	_, err := svc.Filter(context.Background(),
		map[string]any{"a": 1, "price_gte": 50000},
		Query{"a": 2, "page": 1})
	require.NoError(t, err)

	assert.Equal(t, NormalizedQuery{"a": 1, "price_gte": 50000, "_page": 1}, tr.lastCall().Params)
}

func TestService_Create(t *testing.T) {
	tr := newFakeTransport().on("POST", "/items", `{"success": true, "data": {"id": 10, "name": "new"}}`)
	svc := newItemService(tr)

	body := map[string]any{"name": "new"}
	got, err := svc.Create(context.Background(), body)

	require.NoError(t, err)
	assert.Equal(t, &item{ID: 10, Name: "new"}, got)
	assert.Equal(t, body, tr.lastCall().Body)
}

func TestService_UpdateAndPatch(t *testing.T) {
	tr := newFakeTransport().
		on("PUT", "/items/4", `{"success": true, "data": {"id": 4, "name": "put"}}`).
		on("PATCH", "/items/4", `{"success": false, "message": "Conflict", "statusCode": 409}`)
	svc := newItemService(tr)
	ctx := context.Background()

	got, err := svc.Update(ctx, 4, item{Name: "put"})
	require.NoError(t, err)
	assert.Equal(t, "put", got.Name)

	_, err = svc.Patch(ctx, 4, map[string]any{"name": "patch"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Patch", apiErr.Op)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestService_Delete(t *testing.T) {
	denied := &TransportError{Method: "DELETE", Path: "/items/2", StatusCode: http.StatusForbidden}
	tr := newFakeTransport().
		on("DELETE", "/items/1", `{"success": false}`).
		fail("DELETE", "/items/2", denied)
	svc := newItemService(tr)
	ctx := context.Background()

	assert.NoError(t, svc.Delete(ctx, 1), "delete ignores the response body")
	assert.Same(t, denied, svc.Delete(ctx, 2))
}

func TestService_Exists(t *testing.T) {
	tr := newFakeTransport().
		on("GET", "/items/1", `{"success": true, "data": {"id": 1}}`).
		on("GET", "/items/3", `{"success": false, "message": "nope"}`).
		fail("GET", "/items/4", &TransportError{Method: "GET", Path: "/items/4", StatusCode: http.StatusUnauthorized}).
		fail("GET", "/items/5", &TransportError{Method: "GET", Path: "/items/5", Err: errors.New("timeout")})
	svc := newItemService(tr, WithLogger(hclog.NewNullLogger()))
	ctx := context.Background()

	assert.True(t, svc.Exists(ctx, 1))
	assert.False(t, svc.Exists(ctx, 2), "404")
	assert.False(t, svc.Exists(ctx, 3), "logical failure")
	assert.False(t, svc.Exists(ctx, 4), "unauthorized")
	assert.False(t, svc.Exists(ctx, 5), "network")
}

func TestService_Lookup(t *testing.T) {
	unauthorized := &TransportError{Method: "GET", Path: "/items/4", StatusCode: http.StatusUnauthorized}
	tr := newFakeTransport().
		on("GET", "/items/1", `{"success": true, "data": {"id": 1}}`).
		on("GET", "/items/3", `{"success": false, "message": "gone", "statusCode": 404}`).
		fail("GET", "/items/4", unauthorized)
	svc := newItemService(tr)
	ctx := context.Background()

	ok, err := svc.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Lookup(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Lookup(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Lookup(ctx, 4)
	assert.False(t, ok)
	assert.Same(t, unauthorized, err)
}

func TestService_Count(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{
			name:     "pagination total",
			body:     `{"success": true, "count": 1, "data": [{"id": 1}], "pagination": {"page": 1, "limit": 1, "total": 42}}`,
			expected: 42,
		},
		{
			name:     "no pagination block",
			body:     `{"success": true, "count": 3, "data": [{"id": 1}, {"id": 2}, {"id": 3}]}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newFakeTransport().on("GET", "/items", tt.body)
			svc := newItemService(tr)

			n, err := svc.Count(context.Background(), Query{"category": "temple", "limit": 50})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
			assert.Equal(t, NormalizedQuery{"category": "temple", "_limit": 1}, tr.lastCall().Params)
		})
	}
}

func TestService_Count_PropagatesErrors(t *testing.T) {
	tr := newFakeTransport().fail("GET", "/items", &TransportError{Method: "GET", Path: "/items", StatusCode: 500})
	svc := newItemService(tr)

	n, err := svc.Count(context.Background(), nil)

	assert.Equal(t, 0, n)
	assert.Equal(t, KindTransport, KindOf(err))
}
