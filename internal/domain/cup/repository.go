package cup

import "context"

// Repository persists per-cup draws and resolution state.
type Repository interface {
	GetDraw(ctx context.Context, cupKey string) (Draw, bool, error)
	PutDraw(ctx context.Context, d Draw) error
	PutResults(ctx context.Context, r Results) error
}
