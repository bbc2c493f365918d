package zendra

import (
	"context"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zendra/zendra-go/config"
	"github.com/zendra/zendra-go/rest"
)

func TestCommentListAndCreate(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/tickets/t1/comments", r.URL.Path)
		switch r.Method {
		case nethttp.MethodGet:
			writeJSON(t, w, 200, Page[Comment]{Data: []Comment{{ID: "c1", Body: "hi"}}})
		case nethttp.MethodPost:
			assert.NotEmpty(t, r.Header.Get("X-Idempotency-Key"))
			writeJSON(t, w, 201, Comment{ID: "c2", TicketID: "t1", Body: "reply"})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	page, err := c.Comments.List(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "hi", page.Data[0].Body)

	comment, err := c.Comments.Create(context.Background(), "t1", &CommentCreate{Body: "reply", Public: true})
	require.NoError(t, err)
	assert.Equal(t, "c2", comment.ID)
}

func TestBrandCRUD(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch {
		case r.Method == nethttp.MethodGet && r.URL.Path == "/brands":
			writeJSON(t, w, 200, Page[Brand]{Data: []Brand{{ID: "b1", Name: "Acme"}}})
		case r.Method == nethttp.MethodGet && r.URL.Path == "/brands/b1":
			writeJSON(t, w, 200, Brand{ID: "b1", Name: "Acme", Active: true})
		case r.Method == nethttp.MethodPost && r.URL.Path == "/brands":
			writeJSON(t, w, 201, Brand{ID: "b2", Name: "Globex"})
		case r.Method == nethttp.MethodDelete && r.URL.Path == "/brands/b1":
			w.WriteHeader(204)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	ctx := context.Background()

	page, err := c.Brands.List(ctx)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	brand, err := c.Brands.Get(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, brand.Active)

	created, err := c.Brands.Create(ctx, &BrandCreate{Name: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "b2", created.ID)

	require.NoError(t, c.Brands.Delete(ctx, "b1"))
}

func TestUserGetNotFoundAnnotated(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		writeJSON(t, w, 404, map[string]string{"message": "no such user"})
	}))

	_, err := c.Users.Get(context.Background(), "u9")
	require.True(t, rest.IsNotFound(err))
	e, _ := rest.AsError(err)
	assert.Equal(t, "user", e.ResourceType)
	assert.Equal(t, "u9", e.ResourceID)
}

func TestSearchTickets(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/search/tickets", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "printer fire", q.Get("query"))
		assert.Equal(t, "created_at", q.Get("sort_by"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		writeJSON(t, w, 200, Page[Ticket]{Data: []Ticket{{ID: "t1"}}})
	}))

	page, err := c.Search.Tickets(context.Background(), "printer fire", &SearchOptions{SortBy: "created_at", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.LoadBytes([]byte("api:\n  key: zk_cfg\n"))
	require.NoError(t, err)

	c, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, c.Tickets)
	assert.NotNil(t, c.Core())
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("https://api.zendra.io/v1", "", nil)
	assert.ErrorIs(t, err, rest.ErrMissingAPIKey)
}

func TestSessionAccessorsExposed(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.Header().Set("X-Request-Id", "req_77")
		writeJSON(t, w, 200, Page[Brand]{})
	}))

	_, err := c.Brands.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "req_77", c.LastRequestID())
}
