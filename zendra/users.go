package zendra

import (
	"context"
	"iter"

	"github.com/zendra/zendra-go/rest"
)

// UserService exposes agent and end-user accounts.
type UserService struct {
	client *rest.Client
}

// UserListOptions filter user listings.
type UserListOptions struct {
	Role  string
	Limit int
}

func (o *UserListOptions) query() map[string]any {
	q := map[string]any{}
	if o == nil {
		return q
	}
	if o.Role != "" {
		q["role"] = o.Role
	}
	if o.Limit > 0 {
		q["limit"] = o.Limit
	}
	return q
}

// List fetches one page of users.
func (s *UserService) List(ctx context.Context, opts *UserListOptions) (*Page[User], error) {
	var page Page[User]
	if err := s.client.Get(ctx, "/users", opts.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// All iterates every user matching opts across pages.
func (s *UserService) All(ctx context.Context, opts *UserListOptions) iter.Seq2[User, error] {
	return listPages[User](ctx, s.client, "/users", opts.query())
}

// Get fetches a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.client.Get(ctx, "/users/"+id, nil, &u); err != nil {
		return nil, annotateNotFound(err, "user", id)
	}
	return &u, nil
}
