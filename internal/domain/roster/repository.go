package roster

import "context"

// Repository describes roster snapshot persistence.
type Repository interface {
	Get(ctx context.Context) (File, bool, error)
	Put(ctx context.Context, file File) error
}
