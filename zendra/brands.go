package zendra

import (
	"context"

	"github.com/google/uuid"

	"github.com/zendra/zendra-go/rest"
)

// BrandService exposes the brand resource.
type BrandService struct {
	client *rest.Client
}

// List fetches one page of brands.
func (s *BrandService) List(ctx context.Context) (*Page[Brand], error) {
	var page Page[Brand]
	if err := s.client.Get(ctx, "/brands", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a brand by ID.
func (s *BrandService) Get(ctx context.Context, id string) (*Brand, error) {
	var b Brand
	if err := s.client.Get(ctx, "/brands/"+id, nil, &b); err != nil {
		return nil, annotateNotFound(err, "brand", id)
	}
	return &b, nil
}

// Create creates a brand.
func (s *BrandService) Create(ctx context.Context, in *BrandCreate) (*Brand, error) {
	var b Brand
	if err := s.client.Post(ctx, "/brands", in, uuid.NewString(), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete deletes a brand.
func (s *BrandService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/brands/"+id); err != nil {
		return annotateNotFound(err, "brand", id)
	}
	return nil
}
