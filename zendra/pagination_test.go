package zendra

import (
	"context"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zendra/zendra-go/rest"
)

// pagedHandler serves three pages of two tickets each, keyed by cursor.
func pagedHandler(t *testing.T, requests *[]string) nethttp.Handler {
	pages := map[string]Page[Ticket]{
		"": {
			Data: []Ticket{{ID: "t1"}, {ID: "t2"}},
			Meta: pageMeta{AfterCursor: "c1", HasMore: true},
		},
		"c1": {
			Data: []Ticket{{ID: "t3"}, {ID: "t4"}},
			Meta: pageMeta{AfterCursor: "c2", HasMore: true},
		},
		"c2": {
			Data: []Ticket{{ID: "t5"}},
		},
	}
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		cursor := r.URL.Query().Get("after_cursor")
		*requests = append(*requests, cursor)
		page, ok := pages[cursor]
		require.True(t, ok, "unexpected cursor %q", cursor)
		writeJSON(t, w, 200, page)
	})
}

func TestAllTicketsWalksEveryPage(t *testing.T) {
	var requests []string
	c := newTestClient(t, pagedHandler(t, &requests))

	var ids []string
	for ticket, err := range c.Tickets.All(context.Background(), nil) {
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
	}

	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, ids)
	// One request per page, following the cursors.
	assert.Equal(t, []string{"", "c1", "c2"}, requests)
}

func TestAllTicketsStopsEarlyWithoutExtraRequests(t *testing.T) {
	var requests []string
	c := newTestClient(t, pagedHandler(t, &requests))

	var ids []string
	for ticket, err := range c.Tickets.All(context.Background(), nil) {
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
		if len(ids) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"t1", "t2"}, ids)
	assert.Equal(t, []string{""}, requests)
}

func TestAllTicketsIsRestartable(t *testing.T) {
	var requests []string
	c := newTestClient(t, pagedHandler(t, &requests))

	seq := c.Tickets.All(context.Background(), nil)

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 5, count())
	assert.Equal(t, 5, count())
}

func TestAllTicketsYieldsErrorAndStops(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		writeJSON(t, w, 500, map[string]string{"message": "db down"})
	}))

	var errs []error
	for _, err := range c.Tickets.All(context.Background(), nil) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.True(t, rest.IsServer(errs[0]))
}

func TestAllTicketsKeepsFilters(t *testing.T) {
	c := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		writeJSON(t, w, 200, Page[Ticket]{Data: []Ticket{{ID: "t1"}}})
	}))

	for _, err := range c.Tickets.All(context.Background(), &TicketListOptions{Status: "open"}) {
		require.NoError(t, err)
	}
}
