package zendra

import (
	"context"
	"iter"
	"maps"

	"github.com/zendra/zendra-go/rest"
)

// listPages walks a cursor-paginated collection lazily. Each page fetch is
// an independent, fully retried core call; iteration stops on the first
// error, when the server reports no further pages, or when the consumer
// breaks out. The sequence is restartable: ranging again starts from the
// first page.
func listPages[T any](ctx context.Context, rc *rest.Client, path string, query map[string]any) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cursor := ""
		for {
			q := maps.Clone(query)
			if q == nil {
				q = map[string]any{}
			}
			if cursor != "" {
				q["after_cursor"] = cursor
			}

			var page Page[T]
			if err := rc.Get(ctx, path, q, &page); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
			if !page.HasMore() {
				return
			}
			cursor = page.Meta.AfterCursor
		}
	}
}
