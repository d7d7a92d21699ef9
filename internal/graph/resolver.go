package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ghibligraph/internal/catalog"
	"ghibligraph/internal/httpx"

	"github.com/graphql-go/graphql"
)

// Catalog is the read side the resolvers depend on.
type Catalog interface {
	GetByID(ctx context.Context, id string) (catalog.Film, error)
	GetAll(ctx context.Context) ([]catalog.Film, error)
}

// Resolver holds the dependencies of the Query fields. It keeps no
// per-request state.
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
	metrics *Metrics
}

// NewResolver wires the resolvers. logger and metrics may be nil.
func NewResolver(c Catalog, logger *slog.Logger, metrics *Metrics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: c, logger: logger, metrics: metrics}
}

func (r *Resolver) film(p graphql.ResolveParams) (res interface{}, err error) {
	start := time.Now()
	id, _ := p.Args["id"].(string)

	ctx := contextOf(p)
	defer r.recoverPanic(ctx, "film", start, &res, &err, "film_id", id)

	f, err := r.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, r.fail(ctx, "film", start, err, "film_id", id)
	}

	r.metrics.observe("film", CodeOK, time.Since(start))
	return f, nil
}

func (r *Resolver) films(p graphql.ResolveParams) (res interface{}, err error) {
	start := time.Now()

	ctx := contextOf(p)
	defer r.recoverPanic(ctx, "films", start, &res, &err)

	films, err := r.catalog.GetAll(ctx)
	if err != nil {
		return nil, r.fail(ctx, "films", start, err)
	}

	r.metrics.observe("films", CodeOK, time.Since(start))
	return films, nil
}

func (r *Resolver) fail(ctx context.Context, field string, start time.Time, err error, attrs ...any) error {
	gqlErr := translate(err)
	elapsed := time.Since(start)

	level := slog.LevelWarn
	if gqlErr.Code == CodeServerError {
		level = slog.LevelError
	}
	attrs = append(attrs,
		"field", field,
		"code", gqlErr.Code,
		"duration_ms", elapsed.Milliseconds(),
		"request_id", httpx.RequestIDFromContext(ctx),
		"error", err,
	)
	r.logger.Log(ctx, level, "graphql resolver failed", attrs...)

	r.metrics.observe(field, gqlErr.Code, elapsed)
	return gqlErr
}

// recoverPanic reports a panic below a resolver as SERVER_ERROR. graphql-go
// would otherwise return the panic value as the error message.
func (r *Resolver) recoverPanic(ctx context.Context, field string, start time.Time, res *interface{}, err *error, attrs ...any) {
	v := recover()
	if v == nil {
		return
	}
	*res = nil
	*err = r.fail(ctx, field, start, fmt.Errorf("resolver panic: %v", v), attrs...)
}

func contextOf(p graphql.ResolveParams) context.Context {
	if p.Context != nil {
		return p.Context
	}
	return context.Background()
}
