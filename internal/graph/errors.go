package graph

import (
	"errors"

	"ghibligraph/internal/catalog"
)

const (
	CodeNotFound    = "NOT_FOUND"
	CodeAPIError    = "API_ERROR"
	CodeServerError = "SERVER_ERROR"
)

const (
	MessageFilmNotFound       = "Film not found"
	MessageAPIConnectionError = "Failed to connect to Studio Ghibli API"
	MessageServerError        = "Server error"
)

// Error is a GraphQL error carrying a machine-readable code in its
// extensions. The original cause is kept for logging and errors.Is.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Extensions is picked up by graphql-go when formatting the response.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// translate maps a catalog error onto the protocol error taxonomy. Anything
// that is not a catalog error becomes SERVER_ERROR.
func translate(err error) *Error {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	switch catalog.KindOf(err) {
	case catalog.ErrNotFound:
		return &Error{Code: CodeNotFound, Message: MessageFilmNotFound, cause: err}
	case catalog.ErrUpstreamUnavailable:
		return &Error{Code: CodeAPIError, Message: MessageAPIConnectionError, cause: err}
	default:
		return &Error{Code: CodeServerError, Message: MessageServerError, cause: err}
	}
}
