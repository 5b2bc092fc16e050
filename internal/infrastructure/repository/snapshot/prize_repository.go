package snapshot

import (
	"context"

	"github.com/mindless-league/standings/internal/domain/prize"
	"github.com/mindless-league/standings/internal/infrastructure/store"
)

type PrizeRepository struct {
	store *store.Store
}

func NewPrizeRepository(s *store.Store) *PrizeRepository {
	return &PrizeRepository{store: s}
}

func (r *PrizeRepository) PutLedger(_ context.Context, f prize.File) error {
	return r.store.Write("derived/prizes.json", f)
}
