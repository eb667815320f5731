package connectors

import "context"

// ObjectStore lists, downloads and archives source invoice documents. The
// two implementations cover the bucket-backed deployment and a local
// directory used for development.
type ObjectStore interface {
	ListInput(ctx context.Context, max int) ([]string, error)
	Download(ctx context.Context, name string) ([]byte, error)
	Archive(ctx context.Context, name string) error
}
