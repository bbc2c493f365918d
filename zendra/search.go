package zendra

import (
	"context"
	"iter"

	"github.com/zendra/zendra-go/rest"
)

// SearchService exposes full-text search over tickets.
type SearchService struct {
	client *rest.Client
}

// SearchOptions refine a search query.
type SearchOptions struct {
	// SortBy orders results; the platform accepts created_at, updated_at,
	// and priority.
	SortBy string
	// SortOrder is asc or desc.
	SortOrder string
	Limit     int
}

// Tickets runs a full-text ticket search and returns the first page.
func (s *SearchService) Tickets(ctx context.Context, query string, opts *SearchOptions) (*Page[Ticket], error) {
	var page Page[Ticket]
	if err := s.client.Get(ctx, "/search/tickets", s.query(query, opts), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AllTickets iterates every search result across pages.
func (s *SearchService) AllTickets(ctx context.Context, query string, opts *SearchOptions) iter.Seq2[Ticket, error] {
	return listPages[Ticket](ctx, s.client, "/search/tickets", s.query(query, opts))
}

func (s *SearchService) query(query string, opts *SearchOptions) map[string]any {
	q := map[string]any{"query": query}
	if opts == nil {
		return q
	}
	if opts.SortBy != "" {
		q["sort_by"] = opts.SortBy
	}
	if opts.SortOrder != "" {
		q["sort_order"] = opts.SortOrder
	}
	if opts.Limit > 0 {
		q["limit"] = opts.Limit
	}
	return q
}
