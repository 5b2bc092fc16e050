package snapshot

import (
	"context"

	"github.com/mindless-league/standings/internal/domain/standings"
	"github.com/mindless-league/standings/internal/infrastructure/store"
)

type StandingsRepository struct {
	store *store.Store
}

func NewStandingsRepository(s *store.Store) *StandingsRepository {
	return &StandingsRepository{store: s}
}

func (r *StandingsRepository) PutWeeklies(_ context.Context, weeklies []standings.WeeklyResult) error {
	return r.store.Write("derived/weeklies.json", weeklies)
}

func (r *StandingsRepository) PutMonths(_ context.Context, months []standings.MonthlyResult) error {
	return r.store.Write("derived/months.json", months)
}

func (r *StandingsRepository) PutSeason(_ context.Context, season standings.SeasonFile) error {
	return r.store.Write("derived/season.json", season)
}

func (r *StandingsRepository) PutLatest(_ context.Context, latest standings.LatestFile) error {
	return r.store.Write("derived/latest.json", latest)
}

func (r *StandingsRepository) GetLatest(_ context.Context) (standings.LatestFile, bool, error) {
	var latest standings.LatestFile
	found, err := r.store.Read("derived/latest.json", &latest)
	if err != nil {
		return standings.LatestFile{}, false, err
	}
	return latest, found, nil
}
