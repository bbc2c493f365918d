package rest

import (
	"context"
	nethttp "net/http"
)

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query map[string]any, out any) error {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST request. An idempotency key may be supplied so the
// server can deduplicate retried writes.
func (c *Client) Post(ctx context.Context, path string, body any, idempotencyKey string, out any) error {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body, IdempotencyKey: idempotencyKey}, out)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body}, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body}, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path}, nil)
}
