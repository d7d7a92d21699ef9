package catalog

import (
	"context"
	"errors"
	"net/http"

	"ghibligraph/internal/platform/ghibli"
)

// Service reads films from the upstream catalog. Every call is one fresh
// round trip.
type Service struct {
	upstream Upstream
}

func NewService(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// GetByID returns the film with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (Film, error) {
	var f Film
	if err := s.upstream.Get(ctx, ghibli.FilmPath(id), &f); err != nil {
		return Film{}, classifyGetByID(err)
	}
	return f, nil
}

// GetAll returns every film in upstream order.
func (s *Service) GetAll(ctx context.Context) ([]Film, error) {
	var films []Film
	if err := s.upstream.Get(ctx, ghibli.FilmsPath, &films); err != nil {
		return nil, classifyGetAll(err)
	}
	if films == nil {
		films = []Film{}
	}
	return films, nil
}

func classifyGetByID(err error) error {
	if errors.Is(err, ghibli.ErrEmptyBody) {
		return wrap(ErrNotFound, err)
	}

	var se *ghibli.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode >= http.StatusInternalServerError:
			return wrap(ErrUpstreamUnavailable, err)
		case se.StatusCode == http.StatusNotFound:
			return wrap(ErrNotFound, err)
		}
	}
	return wrap(ErrInternal, err)
}

func classifyGetAll(err error) error {
	var se *ghibli.StatusError
	if errors.As(err, &se) && se.StatusCode >= http.StatusInternalServerError {
		return wrap(ErrUpstreamUnavailable, err)
	}
	return wrap(ErrInternal, err)
}
