package client

import (
	"context"

	"ghibligraph/internal/catalog"
)

// State is one observation of a query: loading, then either data or an error.
type State[T any] struct {
	Loading bool
	Data    T
	Err     error
}

// watch emits a loading state, runs fetch, emits the outcome and closes the
// channel. The channel is buffered so an abandoned reader never blocks fetch.
func watch[T any](ctx context.Context, fetch func(context.Context) (T, error)) <-chan State[T] {
	out := make(chan State[T], 2)
	out <- State[T]{Loading: true}

	go func() {
		defer close(out)
		data, err := fetch(ctx)
		if err != nil {
			out <- State[T]{Err: err}
			return
		}
		out <- State[T]{Data: data}
	}()
	return out
}

// FetchFilm runs Film in the background and reports its states.
func (c *Client) FetchFilm(ctx context.Context, id string) <-chan State[catalog.Film] {
	return watch(ctx, func(ctx context.Context) (catalog.Film, error) {
		return c.Film(ctx, id)
	})
}

// FetchFilms runs Films in the background and reports its states.
func (c *Client) FetchFilms(ctx context.Context) <-chan State[[]catalog.Film] {
	return watch(ctx, c.Films)
}
