package snapshot

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/infrastructure/store"
)

// ErrMissingSnapshot marks a required raw snapshot that has not been
// fetched yet.
var ErrMissingSnapshot = errors.New("snapshot: missing raw file")

type GameweekRepository struct {
	store *store.Store
}

func NewGameweekRepository(s *store.Store) *GameweekRepository {
	return &GameweekRepository{store: s}
}

func (r *GameweekRepository) GetBootstrap(_ context.Context) (gameweek.Bootstrap, error) {
	var b gameweek.Bootstrap
	found, err := r.store.Read("bootstrap.json", &b)
	if err != nil {
		return gameweek.Bootstrap{}, err
	}
	if !found {
		return gameweek.Bootstrap{}, errors.Wrap(ErrMissingSnapshot, "bootstrap.json")
	}
	return b, nil
}

func (r *GameweekRepository) PutBootstrap(_ context.Context, b gameweek.Bootstrap) error {
	return r.store.Write("bootstrap.json", b)
}

func entryHistoryPath(entryID int) string {
	return fmt.Sprintf("raw/entry/%d.json", entryID)
}

func (r *GameweekRepository) GetEntryHistory(_ context.Context, entryID int) (gameweek.EntryHistory, error) {
	var h gameweek.EntryHistory
	found, err := r.store.Read(entryHistoryPath(entryID), &h)
	if err != nil {
		return gameweek.EntryHistory{}, err
	}
	if !found {
		return gameweek.EntryHistory{}, errors.Wrapf(ErrMissingSnapshot, "entry %d history", entryID)
	}
	return h, nil
}

func (r *GameweekRepository) PutEntryHistory(_ context.Context, entryID int, h gameweek.EntryHistory) error {
	return r.store.Write(entryHistoryPath(entryID), h)
}

func (r *GameweekRepository) GetTeams(_ context.Context, gw int) (gameweek.TeamsFile, bool, error) {
	var f gameweek.TeamsFile
	found, err := r.store.Read(fmt.Sprintf("gameweeks/%d-teams.json", gw), &f)
	if err != nil {
		return gameweek.TeamsFile{}, false, err
	}
	return f, found, nil
}

func (r *GameweekRepository) PutTeams(_ context.Context, f gameweek.TeamsFile) error {
	return r.store.Write(fmt.Sprintf("gameweeks/%d-teams.json", f.GW), f)
}

func (r *GameweekRepository) GetLive(_ context.Context, gw int) (gameweek.LiveFile, bool, error) {
	var f gameweek.LiveFile
	found, err := r.store.Read(fmt.Sprintf("gameweeks/%d-live.json", gw), &f)
	if err != nil {
		return gameweek.LiveFile{}, false, err
	}
	return f, found, nil
}

func (r *GameweekRepository) PutLive(_ context.Context, gw int, f gameweek.LiveFile) error {
	return r.store.Write(fmt.Sprintf("gameweeks/%d-live.json", gw), f)
}

func (r *GameweekRepository) PutGameweekFile(_ context.Context, f gameweek.File) error {
	return r.store.Write(fmt.Sprintf("gameweeks/%d.json", f.GW), f)
}
