package catalog

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_upstream.go -package=catalog

// Upstream fetches and decodes one upstream resource.
type Upstream interface {
	Get(ctx context.Context, path string, target any) error
}
