package prize

import "context"

// Repository persists the derived prize ledger.
type Repository interface {
	PutLedger(ctx context.Context, f File) error
}
