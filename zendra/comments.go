package zendra

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/zendra/zendra-go/rest"
)

// CommentService exposes ticket comments.
type CommentService struct {
	client *rest.Client
}

// List fetches one page of comments for a ticket.
func (s *CommentService) List(ctx context.Context, ticketID string) (*Page[Comment], error) {
	var page Page[Comment]
	if err := s.client.Get(ctx, "/tickets/"+ticketID+"/comments", nil, &page); err != nil {
		return nil, annotateNotFound(err, "ticket", ticketID)
	}
	return &page, nil
}

// All iterates every comment on a ticket across pages.
func (s *CommentService) All(ctx context.Context, ticketID string) iter.Seq2[Comment, error] {
	return listPages[Comment](ctx, s.client, "/tickets/"+ticketID+"/comments", nil)
}

// Create adds a comment to a ticket.
func (s *CommentService) Create(ctx context.Context, ticketID string, in *CommentCreate) (*Comment, error) {
	var c Comment
	if err := s.client.Post(ctx, "/tickets/"+ticketID+"/comments", in, uuid.NewString(), &c); err != nil {
		return nil, annotateNotFound(err, "ticket", ticketID)
	}
	return &c, nil
}
