package graph

import (
	_ "embed"
	"fmt"

	"ghibligraph/internal/catalog"

	"github.com/graphql-go/graphql"
)

// SDL is the schema served by NewSchema, in schema definition language.
//
//go:embed schema.graphql
var SDL string

type filmField struct {
	name string
	get  func(catalog.Film) *string
}

var filmFields = []filmField{
	{"id", func(f catalog.Film) *string { return f.ID }},
	{"title", func(f catalog.Film) *string { return f.Title }},
	{"description", func(f catalog.Film) *string { return f.Description }},
	{"director", func(f catalog.Film) *string { return f.Director }},
	{"release_date", func(f catalog.Film) *string { return f.ReleaseDate }},
	{"running_time", func(f catalog.Film) *string { return f.RunningTime }},
	{"rt_score", func(f catalog.Film) *string { return f.RTScore }},
	{"movie_banner", func(f catalog.Film) *string { return f.MovieBanner }},
	{"image", func(f catalog.Film) *string { return f.Image }},
}

func newFilmType() *graphql.Object {
	fields := graphql.Fields{}
	for _, ff := range filmFields {
		get := ff.get
		fields[ff.name] = &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				f, ok := p.Source.(catalog.Film)
				if !ok {
					return nil, fmt.Errorf("unexpected film source %T", p.Source)
				}
				if v := get(f); v != nil {
					return *v, nil
				}
				return nil, nil
			},
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:   "Film",
		Fields: fields,
	})
}

// NewSchema builds the executable schema backed by r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	filmType := newFilmType()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"film": &graphql.Field{
				Type: graphql.NewNonNull(filmType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: r.film,
			},
			"films": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(filmType))),
				Resolve: r.films,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build graphql schema: %w", err)
	}
	return schema, nil
}
