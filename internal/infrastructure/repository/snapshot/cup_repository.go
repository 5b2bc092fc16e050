package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/infrastructure/store"
)

type CupRepository struct {
	store *store.Store
}

func NewCupRepository(s *store.Store) *CupRepository {
	return &CupRepository{store: s}
}

func cupSlug(cupKey string) string {
	return strings.ToLower(cupKey)
}

func (r *CupRepository) GetDraw(_ context.Context, cupKey string) (cup.Draw, bool, error) {
	var d cup.Draw
	found, err := r.store.Read(fmt.Sprintf("cups/%s/draw.json", cupSlug(cupKey)), &d)
	if err != nil {
		return cup.Draw{}, false, err
	}
	return d, found, nil
}

func (r *CupRepository) PutDraw(_ context.Context, d cup.Draw) error {
	return r.store.Write(fmt.Sprintf("cups/%s/draw.json", cupSlug(d.CupKey)), d)
}

func (r *CupRepository) PutResults(_ context.Context, results cup.Results) error {
	return r.store.Write(fmt.Sprintf("cups/%s/results.json", cupSlug(results.CupKey)), results)
}
