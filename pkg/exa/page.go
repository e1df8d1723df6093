package exa

import (
	"context"
	"iter"
)

// Page is the list envelope shared by every paginated endpoint.
type Page[T any] struct {
	Data []T `json:"data"`

	HasMore    bool    `json:"hasMore"`
	NextCursor *string `json:"nextCursor"`
}

// ListAll lazily walks a cursor-paginated listing, fetching pages on demand.
// Iteration stops when the API reports no more pages or omits the next
// cursor. A fetch error is yielded once and ends the iteration.
func ListAll[T any](ctx context.Context, list func(ctx context.Context, cursor string) (*Page[T], error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var cursor string

		for {
			page, err := list(ctx, cursor)

			if err != nil {
				var zero T
				yield(zero, err)

				return
			}

			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}

			if !page.HasMore || page.NextCursor == nil {
				return
			}

			cursor = *page.NextCursor
		}
	}
}
