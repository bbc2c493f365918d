package zendra

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zendra/zendra-go/rest"
)

// bulkFetchConcurrency bounds the fan-out of GetMany.
const bulkFetchConcurrency = 5

// TicketService exposes the ticket resource.
type TicketService struct {
	client *rest.Client
}

// TicketListOptions filter and size ticket listings. Zero-valued fields are
// omitted from the query entirely.
type TicketListOptions struct {
	Status     string
	Priority   string
	BrandID    string
	AssigneeID string
	Limit      int
}

func (o *TicketListOptions) query() map[string]any {
	q := map[string]any{}
	if o == nil {
		return q
	}
	if o.Status != "" {
		q["status"] = o.Status
	}
	if o.Priority != "" {
		q["priority"] = o.Priority
	}
	if o.BrandID != "" {
		q["brand_id"] = o.BrandID
	}
	if o.AssigneeID != "" {
		q["assignee_id"] = o.AssigneeID
	}
	if o.Limit > 0 {
		q["limit"] = o.Limit
	}
	return q
}

// List fetches one page of tickets.
func (s *TicketService) List(ctx context.Context, opts *TicketListOptions) (*Page[Ticket], error) {
	var page Page[Ticket]
	if err := s.client.Get(ctx, "/tickets", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// All iterates every ticket matching opts across pages. Callers may break
// out or cancel the context mid-stream.
func (s *TicketService) All(ctx context.Context, opts *TicketListOptions) iter.Seq2[Ticket, error] {
	return listPages[Ticket](ctx, s.client, "/tickets", opts.query())
}

// Get fetches a single ticket by ID.
func (s *TicketService) Get(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	if err := s.client.Get(ctx, "/tickets/"+id, nil, &t); err != nil {
		return nil, annotateNotFound(err, "ticket", id)
	}
	return &t, nil
}

// GetMany fetches several tickets concurrently with bounded parallelism.
// The first error cancels the remaining fetches.
func (s *TicketService) GetMany(ctx context.Context, ids []string) ([]Ticket, error) {
	tickets := make([]Ticket, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkFetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			t, err := s.Get(ctx, id)
			if err != nil {
				return err
			}
			tickets[i] = *t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Create creates a ticket. A fresh idempotency key is generated for the
// call so server-side deduplication covers retried attempts.
func (s *TicketService) Create(ctx context.Context, in *TicketCreate) (*Ticket, error) {
	var t Ticket
	if err := s.client.Post(ctx, "/tickets", in, uuid.NewString(), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies a partial update to a ticket.
func (s *TicketService) Update(ctx context.Context, id string, in *TicketUpdate) (*Ticket, error) {
	var t Ticket
	if err := s.client.Patch(ctx, "/tickets/"+id, in, &t); err != nil {
		return nil, annotateNotFound(err, "ticket", id)
	}
	return &t, nil
}

// Delete deletes a ticket.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/tickets/"+id); err != nil {
		return annotateNotFound(err, "ticket", id)
	}
	return nil
}
