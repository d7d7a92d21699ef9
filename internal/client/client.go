package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ghibligraph/internal/catalog"
	"ghibligraph/internal/graph"

	"github.com/machinebox/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Client runs the film operations against a GraphQL endpoint.
type Client struct {
	gql *graphql.Client
}

type Option func(*options)

type options struct {
	httpClient *http.Client
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// New validates the operation documents against the server schema and
// returns a client for endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if err := ValidateOperations(FilmQuery, FilmsQuery); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var gqlOpts []graphql.ClientOption
	if o.httpClient != nil {
		gqlOpts = append(gqlOpts, graphql.WithHTTPClient(o.httpClient))
	}
	return &Client{gql: graphql.NewClient(endpoint, gqlOpts...)}, nil
}

// ValidateOperations checks each document against graph.SDL.
func ValidateOperations(docs ...string) error {
	schema, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: graph.SDL})
	if gqlErr != nil {
		return fmt.Errorf("load schema: %w", gqlErr)
	}
	for _, doc := range docs {
		if _, errs := gqlparser.LoadQuery(schema, doc); len(errs) > 0 {
			return fmt.Errorf("invalid operation: %w", errs)
		}
	}
	return nil
}

// Film returns the film with the given id.
func (c *Client) Film(ctx context.Context, id string) (catalog.Film, error) {
	req := graphql.NewRequest(FilmQuery)
	req.Var("id", id)

	var resp struct {
		Film catalog.Film `json:"film"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return catalog.Film{}, normalize(err)
	}
	return resp.Film, nil
}

// Films returns every film.
func (c *Client) Films(ctx context.Context) ([]catalog.Film, error) {
	req := graphql.NewRequest(FilmsQuery)

	var resp struct {
		Films []catalog.Film `json:"films"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, normalize(err)
	}
	return resp.Films, nil
}

// normalize strips the transport prefix so the message matches what the
// server put in errors[0].message.
func normalize(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.TrimPrefix(err.Error(), "graphql: ")
	if msg == err.Error() {
		return err
	}
	return &Error{Message: msg, cause: err}
}

// Error is a GraphQL error reported by the server.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }
